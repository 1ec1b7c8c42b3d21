package domain_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/genpack/internal/core/domain"
)

func TestDecodeConfigValue_KeepsOrderAndKinds(t *testing.T) {
	v, err := domain.DecodeConfigValue([]byte(`{"z": 1, "a": [true, null, "x"], "m": {"k": 2.5}}`))
	require.NoError(t, err)

	require.Equal(t, domain.KindMap, v.Kind())
	assert.Equal(t, []string{"z", "a", "m"}, v.Keys())

	z, _ := v.Get("z")
	n, ok := z.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(1), n)

	a, _ := v.Get("a")
	items := a.Items()
	require.Len(t, items, 3)
	b, ok := items[0].AsBool()
	assert.True(t, ok)
	assert.True(t, b)
	assert.True(t, items[1].IsNull())
	s, ok := items[2].AsString()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	m, _ := v.Get("m")
	k, _ := m.Get("k")
	text, ok := k.ScalarText()
	assert.True(t, ok)
	assert.Equal(t, "2.5", text)
}

func TestDecodeConfigValue_RejectsTrailingData(t *testing.T) {
	_, err := domain.DecodeConfigValue([]byte(`{} {}`))
	require.Error(t, err)
}

func TestMap_RepeatedKeyKeepsFirstPosition(t *testing.T) {
	v := domain.Map(
		domain.MapEntry{Key: "a", Value: domain.String("1")},
		domain.MapEntry{Key: "b", Value: domain.String("2")},
		domain.MapEntry{Key: "a", Value: domain.String("3")},
	)
	assert.Equal(t, []string{"a", "b"}, v.Keys())
	got, _ := v.Get("a")
	s, _ := got.AsString()
	assert.Equal(t, "3", s)
}

func TestNewOwnedFileManifest(t *testing.T) {
	m, err := domain.NewOwnedFileManifest([]string{"usr/bin/b", "./usr/bin/a", "", "usr//lib/", "usr/bin/a", "."})
	require.NoError(t, err)
	assert.Equal(t, []string{"usr/bin/a", "usr/bin/b", "usr/lib"}, m.Paths())
	assert.Equal(t, "usr/bin/a\nusr/bin/b\nusr/lib\n", string(m.Bytes()))
	assert.True(t, m.Contains("./usr/lib"))
	assert.False(t, m.Contains("usr"))
}

func TestNewOwnedFileManifest_RejectsEscapes(t *testing.T) {
	tests := []string{"/etc/passwd", "../outside", "usr/../../outside"}
	for _, p := range tests {
		t.Run(p, func(t *testing.T) {
			_, err := domain.NewOwnedFileManifest([]string{"ok", p})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrPathSafety))
		})
	}
}

func TestParseOwnedFileManifest_RoundTrip(t *testing.T) {
	m, err := domain.ParseOwnedFileManifest([]byte("etc/os-release\r\nbin\n\nusr/bin/env\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"bin", "etc/os-release", "usr/bin/env"}, m.Paths())
}

func TestParseVariant(t *testing.T) {
	v, err := domain.ParseVariant("")
	require.NoError(t, err)
	assert.True(t, v.IsDefault())
	assert.Equal(t, "@default", v.DirName())

	v, err = domain.ParseVariant("paravirt_2")
	require.NoError(t, err)
	assert.Equal(t, "paravirt_2", v.DirName())

	_, err = domain.ParseVariant("default")
	require.ErrorIs(t, err, domain.ErrReservedVariantName)

	_, err = domain.ParseVariant("../x")
	require.ErrorContains(t, err, domain.ErrInvalidVariantName.Error())
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Compression
		args []string
	}{
		{"none", domain.CompressionNone, []string{"-no-compression"}},
		{"fast", domain.CompressionFast, []string{"-comp", "lzo"}},
		{"balanced", domain.CompressionBalanced, []string{"-comp", "gzip", "-Xcompression-level", "1"}},
		{"maximal-ratio", domain.CompressionMaximalRatio, []string{"-comp", "xz", "-b", "1M"}},
		{"xz", domain.CompressionMaximalRatio, []string{"-comp", "xz", "-b", "1M"}},
		{"gzip", domain.CompressionBalanced, []string{"-comp", "gzip", "-Xcompression-level", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := domain.ParseCompression(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
			assert.Equal(t, tt.args, c.SquashfsArgs())
		})
	}

	_, err := domain.ParseCompression("zstd")
	require.ErrorContains(t, err, domain.ErrInvalidCompression.Error())
}

func TestStageSet(t *testing.T) {
	s := domain.NewStageSet(domain.StageUpper, domain.StagePack)
	assert.False(t, s.Has(domain.StageLower))
	assert.True(t, s.Has(domain.StageUpper))
	assert.True(t, s.Has(domain.StagePack))
	assert.Equal(t, "upper,pack", s.String())
	assert.Equal(t, "lower,upper,pack", domain.AllStages.String())
}

func TestFlagMap_SetReplacesListValues(t *testing.T) {
	var m domain.FlagMap
	m = m.Set("dev-lang/python", []string{"sqlite", "ssl"})
	m2 := m.Set("dev-lang/python", []string{"tk"})
	m2 = m2.Set("app-misc/foo", nil)

	v, _ := m.Get("dev-lang/python")
	assert.Equal(t, []string{"sqlite", "ssl"}, v, "Set must not mutate the receiver")

	v, _ = m2.Get("dev-lang/python")
	assert.Equal(t, []string{"tk"}, v)
	assert.Equal(t, []string{"dev-lang/python tk", "app-misc/foo"}, m2.Lines())
}

func TestFingerprintFromHeaders(t *testing.T) {
	fp := domain.FingerprintFromHeaders("Tue, 01 Oct 2024 00:00:00 GMT", `"abc"`, "1024")
	assert.Equal(t, `Last-Modified:Tue, 01 Oct 2024 00:00:00 GMT ETag:"abc" Content-Length:1024`, fp.String())
	assert.Equal(t, fp, domain.ParseFingerprint([]byte(fp.String()+"\n")))
}

func TestBuildContext_Paths(t *testing.T) {
	bc := domain.BuildContext{
		Arch:         "x86_64",
		ProjectRoot:  "/src/proj",
		WorkRoot:     "/src/proj/work",
		CacheSharing: domain.CacheShared,
	}
	assert.Equal(t, filepath.Join("/src/proj/work/x86_64/@default", "lower.img"), bc.LowerImagePath())
	assert.Equal(t, "/src/proj/work/x86_64/cache", bc.CacheDir())
	assert.Equal(t, "/src/proj/work/portage.tar.xz.headers", bc.PortageRecordPath())
	assert.Equal(t, "/src/proj/work/x86_64/stage3.tar.xz.headers", bc.Stage3RecordPath())

	v := bc.WithVariant("paravirt").WithCacheSharing(domain.CacheIsolated)
	assert.Equal(t, "/src/proj/work/x86_64/paravirt/upper", v.UpperDir())
	assert.Equal(t, "/src/proj/work/x86_64/paravirt/cache", v.CacheDir())
	assert.True(t, bc.Variant.IsDefault(), "WithVariant must not mutate the receiver")
}

func TestErrorTaxonomy_IsMatching(t *testing.T) {
	tests := []struct {
		err    error
		target error
	}{
		{&domain.ConfigShapeError{Field: "use", Path: "genpack.json5", Expected: "a map", Got: "a list"}, domain.ErrConfigShape},
		{&domain.DeprecatedFieldError{Field: "gentoo-profile", Path: "genpack.json5"}, domain.ErrDeprecatedField},
		{&domain.PreconditionError{Stage: domain.StagePack, Missing: "upper"}, domain.ErrPrecondition},
		{&domain.PathSafetyError{Path: "../x"}, domain.ErrPathSafety},
		{&domain.ExternalToolError{Command: "emerge", ExitCode: 1}, domain.ErrExternalTool},
		{&domain.UpstreamFetchError{URL: "http://x", Status: 404}, domain.ErrUpstreamFetch},
	}
	for _, tt := range tests {
		t.Run(tt.target.Error(), func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.target)
			assert.Contains(t, tt.err.Error(), tt.target.Error())
		})
	}
}

func TestSpec_PackageSets(t *testing.T) {
	spec := domain.EffectiveSpec{
		Packages:          []string{"a", "b"},
		DevelPackages:     []string{"b", "gdb"},
		BuildtimePackages: []string{"dev-lang/go"},
	}
	assert.Equal(t, []string{"a", "b"}, spec.InstallPackages())
	assert.Equal(t, []string{"a", "b", "dev-lang/go"}, spec.LowerPackages())

	spec.Devel = true
	assert.Equal(t, []string{"a", "b", "gdb"}, spec.InstallPackages())
}

func TestHostArch(t *testing.T) {
	arch, err := domain.HostArch("amd64")
	require.NoError(t, err)
	assert.Equal(t, "x86_64", arch)

	arch, err = domain.HostArch("arm64")
	require.NoError(t, err)
	assert.Equal(t, "aarch64", arch)

	_, err = domain.HostArch("wasm")
	require.ErrorContains(t, err, domain.ErrUnsupportedArch.Error())
}
