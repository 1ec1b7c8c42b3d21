package orchestrator_test

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/engine/merge"
	"go.trai.ch/genpack/internal/engine/orchestrator"
)

func TestProvisionSteps(t *testing.T) {
	spec := domain.EffectiveSpec{
		Packages:          []string{"app-misc/hello", "net-misc/openssh"},
		BuildtimePackages: []string{"dev-lang/go"},
		BinpkgExcludes:    []string{"sys-kernel/gentoo-kernel"},
	}
	spec.CircularDepBreaker = spec.CircularDepBreaker.Set("media-libs/freetype", []string{"-harfbuzz"})

	var b strings.Builder
	for _, s := range orchestrator.ProvisionSteps(spec) {
		fmt.Fprintf(&b, "%s: %s\n", s.Name, strings.Join(append(slices.Clone(s.Env), s.Argv...), " "))
	}

	g := goldie.New(t)
	g.Assert(t, "provision_steps", []byte(b.String()))
}

func TestProvisionSteps_NoPackagesSkipsWorld(t *testing.T) {
	for _, s := range orchestrator.ProvisionSteps(domain.EffectiveSpec{}) {
		assert.NotEqual(t, "emerge world", s.Name)
	}
}

func TestFlagFiles(t *testing.T) {
	spec := merge.Defaults()
	spec.Use = spec.Use.Set("dev-lang/python", []string{"sqlite"})
	spec.License = spec.License.Set("sys-kernel/linux-firmware", []string{"linux-fw-redistributable"})
	spec.Mask = []string{">=dev-lang/python-3.14"}

	var b strings.Builder
	for _, f := range orchestrator.FlagFiles(spec) {
		fmt.Fprintf(&b, "== %s ==\n%s", f.Path, f.Content)
	}

	g := goldie.New(t)
	g.Assert(t, "flag_files", []byte(b.String()))
}

func TestUserAddArgs(t *testing.T) {
	uid := int64(1000)
	tests := []struct {
		name string
		user domain.User
		want []string
	}{
		{
			name: "bare",
			user: domain.User{Name: "alice"},
			want: []string{"useradd", "-m", "alice"},
		},
		{
			name: "full",
			user: domain.User{
				Name:             "carol",
				UID:              &uid,
				Comment:          "Carol",
				Home:             "/srv/carol",
				InitialGroup:     "users",
				AdditionalGroups: []string{"wheel", "video"},
				Shell:            "/bin/zsh",
			},
			want: []string{
				"useradd", "-u", "1000", "-c", "Carol", "-d", "/srv/carol", "-g", "users",
				"-G", "wheel,video", "-s", "/bin/zsh", "-m", "carol",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orchestrator.UserAddArgs(tt.user))
		})
	}
}

func TestGroupAddArgs(t *testing.T) {
	gid := int64(500)
	assert.Equal(t, []string{"groupadd", "wheel"}, orchestrator.GroupAddArgs(domain.Group{Name: "wheel"}))
	assert.Equal(t, []string{"groupadd", "-g", "500", "media"}, orchestrator.GroupAddArgs(domain.Group{Name: "media", GID: &gid}))
}

func TestCopyupArgs_IncludeDevelPackages(t *testing.T) {
	spec := domain.EffectiveSpec{Packages: []string{"a"}, DevelPackages: []string{"gdb"}, Devel: true}
	assert.Equal(t, []string{"/usr/bin/copyup-packages", "--list", "a", "gdb"}, orchestrator.CopyupListArgs(spec))
	assert.Equal(t, "gdb", orchestrator.CopyupArgs(spec)[6])
}

func TestParseListing(t *testing.T) {
	m, err := orchestrator.ParseListing([]byte("/usr/bin/hello\n\n  /etc/os-release\n/usr/bin/hello\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"etc/os-release", "usr/bin/hello"}, m.Paths())

	_, err = orchestrator.ParseListing([]byte("/usr/../../etc/shadow\n"))
	assert.ErrorIs(t, err, domain.ErrPathSafety)
}

func TestParseTree(t *testing.T) {
	out := []byte("usr/bin/hello\nhome\nhome/alice\n\nusr/bin\nusr\nopt/with space\n")
	assert.Equal(t, []string{
		"home", "home/alice", "opt/with space", "usr", "usr/bin", "usr/bin/hello",
	}, orchestrator.ParseTree(out))
	assert.Empty(t, orchestrator.ParseTree(nil))
}

func TestListTreeCommand(t *testing.T) {
	cmd := orchestrator.ListTreeCommand("/work/x86_64/@default/upper")
	assert.Equal(t, []string{"find", "/work/x86_64/@default/upper", "-mindepth", "1", "-printf", `%P\n`}, cmd.Argv())
	assert.True(t, cmd.Privileged)
}

func TestOutfilePath(t *testing.T) {
	bc := domain.BuildContext{ProjectRoot: "/src/appliance"}
	assert.Equal(t, "/src/appliance/out.squashfs", orchestrator.OutfilePath(bc, domain.EffectiveSpec{Outfile: "out.squashfs"}))
	assert.Equal(t, "/tmp/out.squashfs", orchestrator.OutfilePath(bc, domain.EffectiveSpec{Outfile: "/tmp/out.squashfs"}))
}

func TestDiscoverScripts(t *testing.T) {
	script := &fstest.MapFile{Data: []byte("#!/bin/sh\n"), Mode: 0o755}
	fsys := fstest.MapFS{
		"20-services":       script,
		"01-locale":         script,
		"carol/10-ssh-keys": script,
		"carol/.swp":        script,
		".git/config":       script,
		"alice/00-profile":  script,
	}

	scripts, err := orchestrator.DiscoverScripts(fsys)
	require.NoError(t, err)
	assert.Equal(t, []orchestrator.Script{
		{Path: "01-locale"},
		{Path: "20-services"},
		{Path: "alice/00-profile", User: "alice"},
		{Path: "carol/10-ssh-keys", User: "carol"},
	}, scripts)
	assert.Equal(t, "/run/genpack/build.d/carol/10-ssh-keys", scripts[3].ContainerPath())
}

func TestDiscoverScripts_MissingDirectory(t *testing.T) {
	scripts, err := orchestrator.DiscoverScripts(os.DirFS(filepath.Join(t.TempDir(), "build.d")))
	require.NoError(t, err)
	assert.Empty(t, scripts)
}
