package merge

import (
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultName is the image name used when the manifest declares none.
const DefaultName = "genpack"

// Defaults returns the trunk every merge starts from.
func Defaults() domain.EffectiveSpec {
	var spec domain.EffectiveSpec
	spec.Name = DefaultName
	spec.LowerLayerCapacity = domain.DefaultLowerLayerCapacity
	spec.AcceptKeywords = spec.AcceptKeywords.Set("dev-cpp/argparse", nil)
	spec.Use = spec.Use.
		Set("sys-libs/glibc", []string{"audit"}).
		Set("sys-kernel/installkernel", []string{"dracut"}).
		Set("dev-lang/perl", []string{"minimal"}).
		Set("app-editors/vim", []string{"minimal"})
	return spec
}

// MergeAll folds mixins in declaration order, then the base fragment, from
// the default trunk.
func MergeAll(bc domain.BuildContext, base domain.Fragment, mixins []domain.Fragment) (domain.EffectiveSpec, error) {
	spec := Defaults()
	for _, m := range mixins {
		next, err := Merge(spec, m, MixinFields, bc, Breadcrumb{m.Origin})
		if err != nil {
			return domain.EffectiveSpec{}, err
		}
		spec = next
	}
	return Merge(spec, base, TopLevel, bc, Breadcrumb{base.Origin})
}

// Resolve merges the project for bc and settles the fields that depend on
// the merge result: the default variant, devel mode, cache sharing and the
// output file name. It returns the spec together with the context it was
// resolved for.
func Resolve(
	bc domain.BuildContext,
	base domain.Fragment,
	mixins []domain.Fragment,
) (domain.EffectiveSpec, domain.BuildContext, error) {
	if bc.Variant.IsDefault() {
		probe, err := MergeAll(bc, base, mixins)
		if err != nil {
			return domain.EffectiveSpec{}, bc, err
		}
		if probe.DefaultVariant != "" {
			v, err := domain.ParseVariant(probe.DefaultVariant)
			if err != nil {
				return domain.EffectiveSpec{}, bc, zerr.With(err, "field", FieldDefaultVariant)
			}
			bc = bc.WithVariant(v)
		}
	}

	if !bc.Variant.IsDefault() {
		declared, err := Variants(base, mixins)
		if err != nil {
			return domain.EffectiveSpec{}, bc, err
		}
		if !slices.Contains(declared, string(bc.Variant)) {
			return domain.EffectiveSpec{}, bc, zerr.With(domain.ErrUnknownVariant, "variant", string(bc.Variant))
		}
	}

	spec, err := MergeAll(bc, base, mixins)
	if err != nil {
		return domain.EffectiveSpec{}, bc, err
	}

	spec.Devel = spec.Devel || bc.Devel
	bc.Devel = spec.Devel

	if bc.CacheSharing == "" {
		bc.CacheSharing = domain.CacheShared
		if spec.IndependentBinpkgs {
			bc.CacheSharing = domain.CacheIsolated
		}
	}

	if spec.Outfile == "" {
		spec.Outfile = DefaultOutfile(spec.Name, bc)
	}
	return spec, bc, nil
}

// DefaultOutfile names the image: "<name>[-<variant>]-<arch>[-devel].squashfs".
func DefaultOutfile(name string, bc domain.BuildContext) string {
	parts := []string{name}
	if !bc.Variant.IsDefault() {
		parts = append(parts, string(bc.Variant))
	}
	parts = append(parts, bc.Arch)
	if bc.Devel {
		parts = append(parts, "devel")
	}
	return fmt.Sprintf("%s.squashfs", strings.Join(parts, "-"))
}

// Variants lists the variant names declared by the base fragment and the
// mixins, sorted and deduplicated.
func Variants(base domain.Fragment, mixins []domain.Fragment) ([]string, error) {
	var names []string
	for _, f := range append(slices.Clone(mixins), base) {
		v, ok := f.Fields.Get(FieldVariants)
		if !ok || v.IsNull() {
			continue
		}
		if v.Kind() != domain.KindMap {
			return nil, shapeError(FieldVariants, Breadcrumb{f.Origin}, domain.KindMap, v)
		}
		names = append(names, v.Keys()...)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}
