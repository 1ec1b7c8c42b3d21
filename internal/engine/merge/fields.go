package merge

import (
	"maps"
	"slices"
	"strings"
)

// Manifest field names.
const (
	FieldName               = "name"
	FieldOutfile            = "outfile"
	FieldDevel              = "devel"
	FieldPackages           = "packages"
	FieldBuildtimePackages  = "buildtime_packages"
	FieldDevelPackages      = "devel_packages"
	FieldAcceptKeywords     = "accept_keywords"
	FieldUse                = "use"
	FieldMask               = "mask"
	FieldLicense            = "license"
	FieldBinpkgExcludes     = "binpkg_excludes"
	FieldUsers              = "users"
	FieldGroups             = "groups"
	FieldServices           = "services"
	FieldArch               = "arch"
	FieldVariants           = "variants"
	FieldMixin              = "mixin"
	FieldDefaultVariant     = "default_variant"
	FieldLowerLayerCapacity = "lower_layer_capacity"
	FieldGentooProfile      = "gentoo_profile"
	FieldIndependentBinpkgs = "independent_binpkgs"
	FieldCircularDepBreaker = "circulardep_breaker"
)

// FieldSet is an immutable set of field names permitted in a merge context.
type FieldSet struct {
	names map[string]struct{}
}

// NewFieldSet builds a set from names.
func NewFieldSet(names ...string) FieldSet {
	s := FieldSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

// Has reports whether name is permitted.
func (s FieldSet) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Without returns a copy of s with names removed.
func (s FieldSet) Without(names ...string) FieldSet {
	out := FieldSet{names: maps.Clone(s.names)}
	for _, n := range names {
		delete(out.names, n)
	}
	return out
}

// Names returns the permitted names in lexical order.
func (s FieldSet) Names() []string {
	return slices.Sorted(maps.Keys(s.names))
}

var (
	// TopLevel permits every recognized manifest field.
	TopLevel = NewFieldSet(
		FieldName, FieldOutfile, FieldDevel,
		FieldPackages, FieldBuildtimePackages, FieldDevelPackages,
		FieldAcceptKeywords, FieldUse, FieldMask, FieldLicense, FieldBinpkgExcludes,
		FieldUsers, FieldGroups, FieldServices,
		FieldArch, FieldVariants, FieldMixin,
		FieldDefaultVariant, FieldLowerLayerCapacity, FieldGentooProfile,
		FieldIndependentBinpkgs, FieldCircularDepBreaker,
	)

	// MixinFields is used for mixin fragments, which cannot pull in further mixins.
	MixinFields = TopLevel.Without(FieldMixin)

	// ArchFields is used inside an architecture branch.
	ArchFields = TopLevel.Without(FieldArch, FieldVariants, FieldMixin, FieldDefaultVariant, FieldName, FieldOutfile)

	// VariantFields is used inside a variant branch.
	VariantFields = TopLevel.Without(FieldArch, FieldVariants, FieldMixin, FieldDefaultVariant)
)

// deprecatedFields maps retired spellings to their replacement.
var deprecatedFields = map[string]string{
	"gentoo-profile":       FieldGentooProfile,
	"binpkg_exclude":       FieldBinpkgExcludes,
	"binpkg-exclude":       FieldBinpkgExcludes,
	"binpkg-excludes":      FieldBinpkgExcludes,
	"buildtime-packages":   FieldBuildtimePackages,
	"devel-packages":       FieldDevelPackages,
	"accept-keywords":      FieldAcceptKeywords,
	"circulardep-breaker":  FieldCircularDepBreaker,
	"lower-layer-capacity": FieldLowerLayerCapacity,
	"compression":          "the --compression flag",
}

// isKnown reports whether name is a recognized manifest field.
func isKnown(name string) bool {
	return TopLevel.Has(name)
}

// isAnnotation reports whether name is ignored by the merge, such as "$schema".
func isAnnotation(name string) bool {
	return strings.HasPrefix(name, "$")
}
