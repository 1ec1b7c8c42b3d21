// Package merge folds configuration fragments into one EffectiveSpec.
//
// Merging is a pure function: neither the trunk nor the branch is mutated,
// and every call returns a fresh EffectiveSpec.
package merge

import (
	"slices"
	"strings"

	"go.trai.ch/genpack/internal/core/domain"
)

// Breadcrumb locates a fragment during a merge, e.g. "mixin(base.json) > arch=x86_64".
type Breadcrumb []string

// Child returns a new breadcrumb with step appended.
func (b Breadcrumb) Child(step string) Breadcrumb {
	return append(slices.Clone(b), step)
}

func (b Breadcrumb) String() string {
	if len(b) == 0 {
		return "(root)"
	}
	return strings.Join(b, " > ")
}

// Merge folds branch into trunk, applying only the fields in allowed.
//
// Within the fragment, plain fields are applied first in document order,
// then every architecture branch matching bc.Arch in key order, then the
// branch of the active variant. Branches therefore override the fragment's
// own plain fields.
func Merge(
	trunk domain.EffectiveSpec,
	branch domain.Fragment,
	allowed FieldSet,
	bc domain.BuildContext,
	path Breadcrumb,
) (domain.EffectiveSpec, error) {
	if branch.Fields.Kind() != domain.KindMap {
		return trunk, shapeError("(fragment)", path, domain.KindMap, branch.Fields)
	}

	out := cloneSpec(trunk)
	fields := branch.Fields

	for _, key := range fields.Keys() {
		if isAnnotation(key) {
			continue
		}
		if !isKnown(key) {
			return trunk, &domain.DeprecatedFieldError{Field: key, Path: path.String(), Replacement: deprecatedFields[key]}
		}
		if !allowed.Has(key) || key == FieldArch || key == FieldVariants {
			continue
		}
		value, _ := fields.Get(key)
		next, err := applyField(out, key, value, path)
		if err != nil {
			return trunk, err
		}
		out = next
	}

	if allowed.Has(FieldArch) {
		if archs, ok := fields.Get(FieldArch); ok {
			next, err := mergeArch(out, archs, bc, path)
			if err != nil {
				return trunk, err
			}
			out = next
		}
	}

	if allowed.Has(FieldVariants) {
		if variants, ok := fields.Get(FieldVariants); ok {
			next, err := mergeVariant(out, variants, bc, path)
			if err != nil {
				return trunk, err
			}
			out = next
		}
	}

	return out, nil
}

func mergeArch(trunk domain.EffectiveSpec, archs domain.ConfigValue, bc domain.BuildContext, path Breadcrumb) (domain.EffectiveSpec, error) {
	if archs.IsNull() {
		return trunk, nil
	}
	if archs.Kind() != domain.KindMap {
		return trunk, shapeError(FieldArch, path, domain.KindMap, archs)
	}
	out := trunk
	for _, key := range archs.Keys() {
		sub, _ := archs.Get(key)
		if sub.Kind() != domain.KindMap {
			return trunk, shapeError(FieldArch+"."+key, path, domain.KindMap, sub)
		}
		if !MatchArch(key, bc.Arch) {
			continue
		}
		next, err := Merge(out, domain.Fragment{Fields: sub}, ArchFields, bc, path.Child("arch="+key))
		if err != nil {
			return trunk, err
		}
		out = next
	}
	return out, nil
}

func mergeVariant(trunk domain.EffectiveSpec, variants domain.ConfigValue, bc domain.BuildContext, path Breadcrumb) (domain.EffectiveSpec, error) {
	if variants.IsNull() {
		return trunk, nil
	}
	if variants.Kind() != domain.KindMap {
		return trunk, shapeError(FieldVariants, path, domain.KindMap, variants)
	}
	for _, key := range variants.Keys() {
		sub, _ := variants.Get(key)
		if sub.Kind() != domain.KindMap {
			return trunk, shapeError(FieldVariants+"."+key, path, domain.KindMap, sub)
		}
	}
	if bc.Variant.IsDefault() {
		return trunk, nil
	}
	sub, ok := variants.Get(string(bc.Variant))
	if !ok {
		return trunk, nil
	}
	return Merge(trunk, domain.Fragment{Fields: sub}, VariantFields, bc, path.Child("variant="+string(bc.Variant)))
}

// MatchArch reports whether arch is one of the "|"-separated tags in key.
func MatchArch(key, arch string) bool {
	for tag := range strings.SplitSeq(key, "|") {
		if strings.TrimSpace(tag) == arch {
			return true
		}
	}
	return false
}

func applyField(spec domain.EffectiveSpec, key string, v domain.ConfigValue, path Breadcrumb) (domain.EffectiveSpec, error) {
	var err error
	switch key {
	case FieldName:
		spec.Name, err = stringField(key, v, path)
	case FieldOutfile:
		spec.Outfile, err = stringField(key, v, path)
	case FieldGentooProfile:
		spec.GentooProfile, err = stringField(key, v, path)
	case FieldDefaultVariant:
		spec.DefaultVariant, err = stringField(key, v, path)
	case FieldDevel:
		spec.Devel, err = boolField(key, v, path)
	case FieldIndependentBinpkgs:
		spec.IndependentBinpkgs, err = boolField(key, v, path)
	case FieldLowerLayerCapacity:
		spec.LowerLayerCapacity, err = intField(key, v, path)
	case FieldPackages:
		spec.Packages, err = applyPackages(spec.Packages, key, v, path)
	case FieldBuildtimePackages:
		spec.BuildtimePackages, err = applyPackages(spec.BuildtimePackages, key, v, path)
	case FieldDevelPackages:
		spec.DevelPackages, err = applyPackages(spec.DevelPackages, key, v, path)
	case FieldAcceptKeywords:
		spec.AcceptKeywords, err = applyFlags(spec.AcceptKeywords, key, v, path)
	case FieldUse:
		spec.Use, err = applyFlags(spec.Use, key, v, path)
	case FieldLicense:
		spec.License, err = applyFlags(spec.License, key, v, path)
	case FieldCircularDepBreaker:
		spec.CircularDepBreaker, err = applyFlags(spec.CircularDepBreaker, key, v, path)
	case FieldMask:
		spec.Mask, err = applyMask(spec.Mask, key, v, path)
	case FieldBinpkgExcludes:
		spec.BinpkgExcludes, err = applyUnique(spec.BinpkgExcludes, key, v, path)
	case FieldServices:
		spec.Services, err = applyUnique(spec.Services, key, v, path)
	case FieldUsers:
		spec.Users, err = applyUsers(spec.Users, key, v, path)
	case FieldGroups:
		spec.Groups, err = applyGroups(spec.Groups, key, v, path)
	case FieldMixin:
		err = checkMixin(key, v, path)
	}
	return spec, err
}

func stringField(key string, v domain.ConfigValue, path Breadcrumb) (string, error) {
	s, ok := v.AsString()
	if !ok {
		return "", shapeError(key, path, domain.KindString, v)
	}
	return s, nil
}

func boolField(key string, v domain.ConfigValue, path Breadcrumb) (bool, error) {
	b, ok := v.AsBool()
	if !ok {
		return false, shapeError(key, path, domain.KindBool, v)
	}
	return b, nil
}

func intField(key string, v domain.ConfigValue, path Breadcrumb) (int64, error) {
	n, ok := v.AsInt()
	if !ok {
		return 0, shapeError(key, path, domain.KindNumber, v)
	}
	return n, nil
}

// stringList returns the items of a list of strings.
func stringList(key string, v domain.ConfigValue, path Breadcrumb) ([]string, error) {
	if v.Kind() != domain.KindList {
		return nil, shapeError(key, path, domain.KindList, v)
	}
	items := v.Items()
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.AsString()
		if !ok {
			return nil, shapeError(key+"[]", path, domain.KindString, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// applyPackages unions entries into trunk. A "-" prefix retracts a prior
// member and a "+" prefix is an explicit add.
func applyPackages(trunk []string, key string, v domain.ConfigValue, path Breadcrumb) ([]string, error) {
	entries, err := stringList(key, v, path)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(trunk)
	for _, entry := range entries {
		switch {
		case strings.HasPrefix(entry, "-"):
			name := strings.TrimPrefix(entry, "-")
			out = slices.DeleteFunc(out, func(p string) bool { return p == name })
		default:
			name := strings.TrimPrefix(entry, "+")
			if name != "" && !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out, nil
}

// applyFlags binds every key of the map in v. A later value replaces the
// earlier one wholesale, list values included.
func applyFlags(trunk domain.FlagMap, key string, v domain.ConfigValue, path Breadcrumb) (domain.FlagMap, error) {
	if v.Kind() != domain.KindMap {
		return trunk, shapeError(key, path, domain.KindMap, v)
	}
	out := trunk
	for _, atom := range v.Keys() {
		raw, _ := v.Get(atom)
		values, err := flagValues(key+"."+atom, raw, path)
		if err != nil {
			return trunk, err
		}
		out = out.Set(atom, values)
	}
	return out, nil
}

func flagValues(field string, v domain.ConfigValue, path Breadcrumb) ([]string, error) {
	switch {
	case v.IsNull():
		return nil, nil
	case v.IsScalar():
		text, _ := v.ScalarText()
		return strings.Fields(text), nil
	case v.Kind() == domain.KindList:
		var out []string
		for _, item := range v.Items() {
			text, ok := item.ScalarText()
			if !ok {
				return nil, shapeError(field+"[]", path, domain.KindString, item)
			}
			out = append(out, strings.Fields(text)...)
		}
		return out, nil
	default:
		return nil, shapeError(field, path, domain.KindString, v)
	}
}

// applyMask is an order-independent union; the result is kept sorted.
func applyMask(trunk []string, key string, v domain.ConfigValue, path Breadcrumb) ([]string, error) {
	entries, err := stringList(key, v, path)
	if err != nil {
		return nil, err
	}
	out := append(slices.Clone(trunk), entries...)
	slices.Sort(out)
	return slices.Compact(out), nil
}

// applyUnique appends entries not already present, keeping first-seen order.
func applyUnique(trunk []string, key string, v domain.ConfigValue, path Breadcrumb) ([]string, error) {
	entries, err := stringList(key, v, path)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(trunk)
	for _, e := range entries {
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func applyGroups(trunk []domain.Group, key string, v domain.ConfigValue, path Breadcrumb) ([]domain.Group, error) {
	if v.Kind() != domain.KindList {
		return nil, shapeError(key, path, domain.KindList, v)
	}
	out := slices.Clone(trunk)
	for _, item := range v.Items() {
		if name, ok := item.AsString(); ok {
			out = append(out, domain.Group{Name: name})
			continue
		}
		if item.Kind() != domain.KindMap {
			return nil, shapeError(key+"[]", path, domain.KindMap, item)
		}
		name, err := requiredName(key, item, path)
		if err != nil {
			return nil, err
		}
		g := domain.Group{Name: name}
		if gid, ok := item.Get("gid"); ok {
			n, err := intField(key+"[].gid", gid, path)
			if err != nil {
				return nil, err
			}
			g.GID = &n
		}
		out = append(out, g)
	}
	return out, nil
}

func applyUsers(trunk []domain.User, key string, v domain.ConfigValue, path Breadcrumb) ([]domain.User, error) {
	if v.Kind() != domain.KindList {
		return nil, shapeError(key, path, domain.KindList, v)
	}
	out := slices.Clone(trunk)
	for _, item := range v.Items() {
		if name, ok := item.AsString(); ok {
			out = append(out, domain.User{Name: name})
			continue
		}
		if item.Kind() != domain.KindMap {
			return nil, shapeError(key+"[]", path, domain.KindMap, item)
		}
		u, err := decodeUser(key, item, path)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func decodeUser(key string, item domain.ConfigValue, path Breadcrumb) (domain.User, error) {
	name, err := requiredName(key, item, path)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{Name: name}
	if raw, ok := item.Get("uid"); ok {
		n, err := intField(key+"[].uid", raw, path)
		if err != nil {
			return domain.User{}, err
		}
		u.UID = &n
	}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"comment", &u.Comment},
		{"home", &u.Home},
		{"initial_group", &u.InitialGroup},
		{"shell", &u.Shell},
	} {
		if raw, ok := item.Get(f.name); ok {
			s, err := stringField(key+"[]."+f.name, raw, path)
			if err != nil {
				return domain.User{}, err
			}
			*f.dst = s
		}
	}
	if raw, ok := item.Get("additional_groups"); ok {
		groups, err := stringList(key+"[].additional_groups", raw, path)
		if err != nil {
			return domain.User{}, err
		}
		u.AdditionalGroups = groups
	}
	return u, nil
}

func requiredName(key string, item domain.ConfigValue, path Breadcrumb) (string, error) {
	raw, ok := item.Get("name")
	if !ok {
		return "", shapeError(key+"[].name", path, domain.KindString, domain.Null())
	}
	return stringField(key+"[].name", raw, path)
}

func checkMixin(key string, v domain.ConfigValue, path Breadcrumb) error {
	if _, ok := v.AsString(); ok || v.IsNull() {
		return nil
	}
	_, err := stringList(key, v, path)
	return err
}

func shapeError(field string, path Breadcrumb, want domain.ValueKind, got domain.ConfigValue) error {
	return &domain.ConfigShapeError{
		Field:    field,
		Path:     path.String(),
		Expected: want.String(),
		Got:      got.Kind().String(),
	}
}

// cloneSpec copies the slice fields of s so later appends never alias the trunk.
func cloneSpec(s domain.EffectiveSpec) domain.EffectiveSpec {
	s.Packages = slices.Clone(s.Packages)
	s.BuildtimePackages = slices.Clone(s.BuildtimePackages)
	s.DevelPackages = slices.Clone(s.DevelPackages)
	s.Mask = slices.Clone(s.Mask)
	s.BinpkgExcludes = slices.Clone(s.BinpkgExcludes)
	s.Users = slices.Clone(s.Users)
	s.Groups = slices.Clone(s.Groups)
	s.Services = slices.Clone(s.Services)
	return s
}
