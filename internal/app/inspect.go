package app

import (
	"context"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// inspectReport is the YAML rendering of a resolved variant. Flag maps are
// shown as the lines written to the portage configuration.
type inspectReport struct {
	Arch               string         `yaml:"arch"`
	Variant            string         `yaml:"variant"`
	Outfile            string         `yaml:"outfile"`
	Devel              bool           `yaml:"devel"`
	CacheSharing       string         `yaml:"cache_sharing"`
	Compression        string         `yaml:"compression"`
	Name               string         `yaml:"name"`
	Packages           []string       `yaml:"packages"`
	BuildtimePackages  []string       `yaml:"buildtime_packages,omitempty"`
	DevelPackages      []string       `yaml:"devel_packages,omitempty"`
	AcceptKeywords     []string       `yaml:"accept_keywords,omitempty"`
	Use                []string       `yaml:"use,omitempty"`
	License            []string       `yaml:"license,omitempty"`
	Mask               []string       `yaml:"mask,omitempty"`
	BinpkgExcludes     []string       `yaml:"binpkg_excludes,omitempty"`
	CircularDepBreaker []string       `yaml:"circulardep_breaker,omitempty"`
	Groups             []domain.Group `yaml:"groups,omitempty"`
	Users              []domain.User  `yaml:"users,omitempty"`
	Services           []string       `yaml:"services,omitempty"`
	LowerLayerCapacity int64          `yaml:"lower_layer_capacity"`
	GentooProfile      string         `yaml:"gentoo_profile,omitempty"`
}

func newInspectReport(bc domain.BuildContext, spec domain.EffectiveSpec) inspectReport {
	return inspectReport{
		Arch:               bc.Arch,
		Variant:            bc.Variant.String(),
		Outfile:            spec.Outfile,
		Devel:              spec.Devel,
		CacheSharing:       string(bc.CacheSharing),
		Compression:        string(bc.Compression),
		Name:               spec.Name,
		Packages:           spec.Packages,
		BuildtimePackages:  spec.BuildtimePackages,
		DevelPackages:      spec.DevelPackages,
		AcceptKeywords:     spec.AcceptKeywords.Lines(),
		Use:                spec.Use.Lines(),
		License:            spec.License.Lines(),
		Mask:               spec.Mask,
		BinpkgExcludes:     spec.BinpkgExcludes,
		CircularDepBreaker: spec.CircularDepBreaker.Lines(),
		Groups:             spec.Groups,
		Users:              spec.Users,
		Services:           spec.Services,
		LowerLayerCapacity: spec.LowerLayerCapacity,
		GentooProfile:      spec.GentooProfile,
	}
}

// Inspect writes the resolved spec of the selected variant as YAML.
func (a *App) Inspect(ctx context.Context, opts Options) error {
	s, err := a.resolve(ctx, opts)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(newInspectReport(s.bc, s.spec)); err != nil {
		return zerr.Wrap(err, domain.ErrInspectFailed.Error())
	}
	if err := enc.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrInspectFailed.Error())
	}
	return nil
}
