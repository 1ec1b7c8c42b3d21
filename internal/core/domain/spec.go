package domain

import (
	"encoding/json"
	"slices"
	"strings"
)

// DefaultLowerLayerCapacity is the size of the sparse lower image, in MiB.
const DefaultLowerLayerCapacity int64 = 16384

// FlagMap is an ordered map from package atom to flag values. A nil value
// renders as the bare atom. A key keeps the position of its first insertion.
type FlagMap struct {
	keys   []string
	values map[string][]string
}

// Set returns a copy of m with key bound to values. An existing list value is
// replaced, not merged.
func (m FlagMap) Set(key string, values []string) FlagMap {
	out := FlagMap{
		keys:   slices.Clone(m.keys),
		values: make(map[string][]string, len(m.values)+1),
	}
	for k, v := range m.values {
		out.values[k] = v
	}
	if _, ok := out.values[key]; !ok {
		out.keys = append(out.keys, key)
	}
	out.values[key] = slices.Clone(values)
	return out
}

// Get returns the values bound to key.
func (m FlagMap) Get(key string) ([]string, bool) {
	v, ok := m.values[key]
	return slices.Clone(v), ok
}

// Has reports whether key is bound.
func (m FlagMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the bound keys in insertion order.
func (m FlagMap) Keys() []string {
	return slices.Clone(m.keys)
}

// Len returns the number of bound keys.
func (m FlagMap) Len() int {
	return len(m.keys)
}

// Lines renders one portage configuration line per key: "k", "k v" or "k v1 v2".
func (m FlagMap) Lines() []string {
	lines := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		v := m.values[k]
		if len(v) == 0 {
			lines = append(lines, k)
			continue
		}
		lines = append(lines, k+" "+strings.Join(v, " "))
	}
	return lines
}

// Equal reports whether both maps bind the same keys, in the same order, to the same values.
func (m FlagMap) Equal(other FlagMap) bool {
	if !slices.Equal(m.keys, other.keys) {
		return false
	}
	for _, k := range m.keys {
		if !slices.Equal(m.values[k], other.values[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON renders the map as an ordered list of [key, values] pairs.
func (m FlagMap) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, 0, len(m.keys))
	for _, k := range m.keys {
		pairs = append(pairs, [2]any{k, m.values[k]})
	}
	return json.Marshal(pairs)
}

// Group is a group to create in the upper layer.
type Group struct {
	Name string `json:"name"          yaml:"name"`
	GID  *int64 `json:"gid,omitempty" yaml:"gid,omitempty"`
}

// User is a user to create in the upper layer.
type User struct {
	Name             string   `json:"name"                        yaml:"name"`
	UID              *int64   `json:"uid,omitempty"               yaml:"uid,omitempty"`
	Comment          string   `json:"comment,omitempty"           yaml:"comment,omitempty"`
	Home             string   `json:"home,omitempty"              yaml:"home,omitempty"`
	InitialGroup     string   `json:"initial_group,omitempty"     yaml:"initial_group,omitempty"`
	AdditionalGroups []string `json:"additional_groups,omitempty" yaml:"additional_groups,omitempty"`
	Shell            string   `json:"shell,omitempty"             yaml:"shell,omitempty"`
}

// EffectiveSpec is the fully merged build specification. It carries no
// architecture, variant or mixin branches.
type EffectiveSpec struct {
	Name               string   `json:"name"`
	Outfile            string   `json:"outfile"`
	Devel              bool     `json:"devel"`
	Packages           []string `json:"packages"`
	BuildtimePackages  []string `json:"buildtime_packages"`
	DevelPackages      []string `json:"devel_packages"`
	AcceptKeywords     FlagMap  `json:"accept_keywords"`
	Use                FlagMap  `json:"use"`
	License            FlagMap  `json:"license"`
	CircularDepBreaker FlagMap  `json:"circulardep_breaker"`
	Mask               []string `json:"mask"`
	BinpkgExcludes     []string `json:"binpkg_excludes"`
	Users              []User   `json:"users"`
	Groups             []Group  `json:"groups"`
	Services           []string `json:"services"`
	DefaultVariant     string   `json:"default_variant"`
	LowerLayerCapacity int64    `json:"lower_layer_capacity"`
	GentooProfile      string   `json:"gentoo_profile"`
	IndependentBinpkgs bool     `json:"independent_binpkgs"`
}

// InstallPackages returns the packages copied into the upper layer.
func (s EffectiveSpec) InstallPackages() []string {
	out := slices.Clone(s.Packages)
	if s.Devel {
		for _, p := range s.DevelPackages {
			if !slices.Contains(out, p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// LowerPackages returns the packages installed in the lower layer.
func (s EffectiveSpec) LowerPackages() []string {
	out := s.InstallPackages()
	for _, p := range s.BuildtimePackages {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}
