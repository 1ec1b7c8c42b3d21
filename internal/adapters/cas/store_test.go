package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/genpack/internal/adapters/cas"
	"go.trai.ch/genpack/internal/core/domain"
)

func newStore(t *testing.T) *cas.Store {
	t.Helper()
	store, err := cas.NewStore()
	require.NoError(t, err)
	return store
}

func TestStore_Fingerprint(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	path := filepath.Join(t.TempDir(), "x86_64", "stage3.tar.xz.headers")

	t.Run("missing record is zero", func(t *testing.T) {
		fp, err := store.ReadFingerprint(path)
		require.NoError(t, err)
		assert.True(t, fp.IsZero())
	})

	t.Run("write and read", func(t *testing.T) {
		want := domain.FingerprintFromHeaders("Tue, 01 Oct 2024 00:00:00 GMT", `"abc"`, "1024")
		require.NoError(t, store.WriteFingerprint(path, want))

		got, err := store.ReadFingerprint(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want.String()+"\n", string(data))
	})
}

func TestStore_LayerState(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	path := filepath.Join(t.TempDir(), "@default", domain.StateFileName)

	got, err := store.LoadLayerState(path)
	require.NoError(t, err)
	assert.Equal(t, domain.LayerState{}, got)

	built := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := domain.LayerState{
		Lower:               domain.UpstreamFingerprints{Stage3: "s", Portage: "p"},
		LowerDigest:         "00000000deadbeef",
		UpperManifestDigest: "1111111111111111",
		UpperDigest:         "2222222222222222",
		UpperBuilt:          built,
		Pack:                &domain.PackRecord{Outfile: "/out.squashfs", Compression: domain.CompressionFast, UpperBuilt: built},
	}
	require.NoError(t, store.SaveLayerState(path, want))

	got, err = store.LoadLayerState(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files are left behind")
}

func TestStore_LayerStateCorrupt(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	path := filepath.Join(t.TempDir(), domain.StateFileName)
	require.NoError(t, os.WriteFile(path, []byte("{ invalid json"), 0o600))

	_, err := store.LoadLayerState(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())
}

func TestStore_Manifest(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	path := filepath.Join(t.TempDir(), domain.LowerManifestName)

	_, found, err := store.ReadManifest(path)
	require.NoError(t, err)
	assert.False(t, found)

	m, err := domain.NewOwnedFileManifest([]string{"usr/bin/hello", "etc/os-release"})
	require.NoError(t, err)
	require.NoError(t, store.WriteManifest(path, m))

	got, found, err := store.ReadManifest(path)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, m.Paths(), got.Paths())

	require.NoError(t, store.RemoveManifest(path))
	_, found, err = store.ReadManifest(path)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.RemoveManifest(path), "removing a missing manifest is not an error")
}

func TestStore_ManifestRejectsEscapes(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	path := filepath.Join(t.TempDir(), domain.LowerManifestName)
	require.NoError(t, os.WriteFile(path, []byte("usr/bin\n../../etc/shadow\n"), 0o600))

	_, _, err := store.ReadManifest(path)
	assert.ErrorIs(t, err, domain.ErrPathSafety)
}
