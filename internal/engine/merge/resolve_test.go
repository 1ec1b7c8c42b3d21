package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/engine/merge"
)

const scenarioManifest = `{
	"packages": ["p1"],
	"arch": {"x86_64": {"accept_keywords": {"p2": null}}},
	"variants": {"v": {"packages": ["p3"]}}
}`

func TestResolve_Scenario(t *testing.T) {
	base := fragment(t, "genpack.json5", scenarioManifest)

	spec, bc, err := merge.Resolve(x86("v"), base, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Variant("v"), bc.Variant)
	assert.ElementsMatch(t, []string{"p1", "p3"}, spec.Packages)
	assert.True(t, spec.AcceptKeywords.Has("p2"))

	spec, _, err = merge.Resolve(x86(""), base, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, spec.Packages)
	assert.True(t, spec.AcceptKeywords.Has("p2"))
}

func TestResolve_Defaults(t *testing.T) {
	spec, bc, err := merge.Resolve(x86(""), fragment(t, "genpack.json5", `{"use": {"dev-lang/perl": null}}`), nil)
	require.NoError(t, err)

	assert.Equal(t, "genpack", spec.Name)
	assert.Equal(t, "genpack-x86_64.squashfs", spec.Outfile)
	assert.Equal(t, domain.DefaultLowerLayerCapacity, spec.LowerLayerCapacity)
	assert.True(t, spec.AcceptKeywords.Has("dev-cpp/argparse"))

	perl, ok := spec.Use.Get("dev-lang/perl")
	require.True(t, ok)
	assert.Empty(t, perl, "manifest entries override defaults")

	glibc, _ := spec.Use.Get("sys-libs/glibc")
	assert.Equal(t, []string{"audit"}, glibc)
	assert.Equal(t, domain.CacheShared, bc.CacheSharing)
}

func TestResolve_DefaultVariant(t *testing.T) {
	base := fragment(t, "genpack.json5", `{
		"name": "appliance",
		"default_variant": "v",
		"variants": {"v": {"packages": ["p3"]}}
	}`)

	spec, bc, err := merge.Resolve(x86(""), base, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Variant("v"), bc.Variant)
	assert.Equal(t, []string{"p3"}, spec.Packages)
	assert.Equal(t, "appliance-v-x86_64.squashfs", spec.Outfile)
}

func TestResolve_UnknownVariant(t *testing.T) {
	_, _, err := merge.Resolve(x86("missing"), fragment(t, "genpack.json5", scenarioManifest), nil)
	require.ErrorContains(t, err, domain.ErrUnknownVariant.Error())
}

func TestResolve_VariantDeclaredByMixin(t *testing.T) {
	mixin := fragment(t, "mixin(m)", `{"variants": {"paravirt": {"packages": ["virtio"]}}}`)
	spec, _, err := merge.Resolve(x86("paravirt"), fragment(t, "genpack.json5", `{"packages": ["p1"]}`), []domain.Fragment{mixin})
	require.NoError(t, err)
	assert.Equal(t, []string{"virtio", "p1"}, spec.Packages)
}

func TestResolve_DevelAndCacheSharing(t *testing.T) {
	base := fragment(t, "genpack.json5", `{
		"name": "n",
		"independent_binpkgs": true,
		"devel_packages": ["gdb"],
		"packages": ["p1"]
	}`)

	bc := x86("")
	bc.Devel = true
	spec, bc, err := merge.Resolve(bc, base, nil)
	require.NoError(t, err)
	assert.True(t, spec.Devel)
	assert.Equal(t, []string{"p1", "gdb"}, spec.InstallPackages())
	assert.Equal(t, "n-x86_64-devel.squashfs", spec.Outfile)
	assert.Equal(t, domain.CacheIsolated, bc.CacheSharing)

	explicit := x86("")
	explicit.CacheSharing = domain.CacheShared
	_, bc, err = merge.Resolve(explicit, base, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CacheShared, bc.CacheSharing, "an explicit mode wins over independent_binpkgs")
}

func TestVariants(t *testing.T) {
	names, err := merge.Variants(
		fragment(t, "genpack.json5", `{"variants": {"b": {}, "a": {}}}`),
		[]domain.Fragment{fragment(t, "mixin(m)", `{"variants": {"a": {}, "c": {}}}`)},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)
}
