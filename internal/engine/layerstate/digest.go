package layerstate

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/zerr"
)

// lowerInputs is the part of an EffectiveSpec that shapes the lower layer.
type lowerInputs struct {
	Packages           []string       `json:"packages"`
	AcceptKeywords     domain.FlagMap `json:"accept_keywords"`
	Use                domain.FlagMap `json:"use"`
	License            domain.FlagMap `json:"license"`
	CircularDepBreaker domain.FlagMap `json:"circulardep_breaker"`
	Mask               []string       `json:"mask"`
	BinpkgExcludes     []string       `json:"binpkg_excludes"`
	GentooProfile      string         `json:"gentoo_profile"`
}

// upperInputs is the part of an EffectiveSpec that shapes the upper layer.
type upperInputs struct {
	Packages []string       `json:"packages"`
	Users    []domain.User  `json:"users"`
	Groups   []domain.Group `json:"groups"`
	Services []string       `json:"services"`
}

// LowerDigest fingerprints the fields that the lower provisioning sequence consumes.
func LowerDigest(spec domain.EffectiveSpec) (string, error) {
	return digestJSON(lowerInputs{
		Packages:           spec.LowerPackages(),
		AcceptKeywords:     spec.AcceptKeywords,
		Use:                spec.Use,
		License:            spec.License,
		CircularDepBreaker: spec.CircularDepBreaker,
		Mask:               spec.Mask,
		BinpkgExcludes:     spec.BinpkgExcludes,
		GentooProfile:      spec.GentooProfile,
	})
}

// UpperDigest fingerprints the fields that the upper regeneration consumes.
func UpperDigest(spec domain.EffectiveSpec) (string, error) {
	return digestJSON(upperInputs{
		Packages: spec.InstallPackages(),
		Users:    spec.Users,
		Groups:   spec.Groups,
		Services: spec.Services,
	})
}

// ManifestDigest fingerprints an owned-file manifest in its persisted form.
func ManifestDigest(m domain.OwnedFileManifest) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(m.Bytes()))
}

func digestJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode digest input")
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
