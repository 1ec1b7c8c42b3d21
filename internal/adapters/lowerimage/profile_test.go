package lowerimage_test

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/genpack/internal/adapters/lowerimage"
	"go.trai.ch/genpack/internal/core/domain"
)

func profiles(dirs ...string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, d := range dirs {
		fsys["var/db/repos/gentoo/profiles/default/linux/"+d] = &fstest.MapFile{Mode: fs.ModeDir | 0o755}
	}
	return fsys
}

func TestResolveProfile(t *testing.T) {
	fsys := profiles("arm64/17.0/systemd", "arm64/9.0/systemd", "arm64/23.0/desktop")

	_, err := lowerimage.ResolveProfile(fsys, "aarch64", "systemd")
	require.ErrorContains(t, err, domain.ErrProfileNotFound.Error(), "only the newest release is considered")

	got, err := lowerimage.ResolveProfile(fsys, "aarch64", "desktop")
	require.NoError(t, err)
	assert.Equal(t, "default/linux/arm64/23.0/desktop", got)
}

func TestResolveProfile_NumericOrdering(t *testing.T) {
	got, err := lowerimage.ResolveProfile(profiles("amd64/9.0/systemd", "amd64/17.1/systemd", "amd64/README"), "x86_64", "systemd")
	require.NoError(t, err)
	assert.Equal(t, "default/linux/amd64/17.1/systemd", got)
}

func TestResolveProfile_MissingArch(t *testing.T) {
	_, err := lowerimage.ResolveProfile(profiles("amd64/23.0/systemd"), "riscv64", "systemd")
	require.ErrorContains(t, err, domain.ErrProfileNotFound.Error())
}

func TestPortageArch(t *testing.T) {
	assert.Equal(t, "amd64", lowerimage.PortageArch("x86_64"))
	assert.Equal(t, "loong", lowerimage.PortageArch("loongarch64"))
	assert.Equal(t, "s390x", lowerimage.PortageArch("s390x"))
}
