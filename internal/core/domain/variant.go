package domain

import (
	"regexp"

	"go.trai.ch/zerr"
)

// ReservedVariantName cannot be used for a named variant.
const ReservedVariantName = "default"

// defaultVariantDir is the work directory of the unnamed variant. "@" cannot
// appear in a variant name, so it never collides with a named one.
const defaultVariantDir = "@default"

var validVariantNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Variant is a named build target. The empty variant is the unnamed default.
type Variant string

// ParseVariant validates a variant name. The empty string selects the default variant.
func ParseVariant(name string) (Variant, error) {
	if name == "" {
		return "", nil
	}
	if name == ReservedVariantName {
		return "", ErrReservedVariantName
	}
	if !validVariantNameRegex.MatchString(name) {
		return "", zerr.With(ErrInvalidVariantName, "variant", name)
	}
	return Variant(name), nil
}

// IsDefault reports whether v is the unnamed default variant.
func (v Variant) IsDefault() bool {
	return v == ""
}

// DirName returns the name of the variant's work directory.
func (v Variant) DirName() string {
	if v.IsDefault() {
		return defaultVariantDir
	}
	return string(v)
}

func (v Variant) String() string {
	if v.IsDefault() {
		return "(default)"
	}
	return string(v)
}
