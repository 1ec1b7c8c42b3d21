package domain

import "time"

// LowerVerdict is the State Machine's decision for the lower layer.
type LowerVerdict int

const (
	// VerdictReuse keeps the existing lower image.
	VerdictReuse LowerVerdict = iota
	// VerdictInPlacePatch replaces the portage tree inside the existing image.
	VerdictInPlacePatch
	// VerdictFullRebuild recreates the lower image from scratch.
	VerdictFullRebuild
)

func (v LowerVerdict) String() string {
	switch v {
	case VerdictReuse:
		return "reuse"
	case VerdictInPlacePatch:
		return "in-place patch"
	case VerdictFullRebuild:
		return "full rebuild"
	default:
		return "unknown"
	}
}

// LowerState is the lifecycle state of a variant's lower layer.
type LowerState int

const (
	// LowerAbsent means no usable lower layer exists.
	LowerAbsent LowerState = iota
	// LowerBuilding means the lower layer is being created or provisioned.
	LowerBuilding
	// LowerReady means the lower layer and its owned-file manifest are valid.
	LowerReady
)

func (s LowerState) String() string {
	switch s {
	case LowerAbsent:
		return "absent"
	case LowerBuilding:
		return "building"
	case LowerReady:
		return "ready"
	default:
		return "unknown"
	}
}

// UpperState is the lifecycle state of a variant's upper layer.
type UpperState int

const (
	// UpperStale means the upper layer must be regenerated.
	UpperStale UpperState = iota
	// UpperBuilding means the upper layer is being regenerated.
	UpperBuilding
	// UpperReady means the upper layer matches the current lower layer and spec.
	UpperReady
)

func (s UpperState) String() string {
	switch s {
	case UpperStale:
		return "stale"
	case UpperBuilding:
		return "building"
	case UpperReady:
		return "ready"
	default:
		return "unknown"
	}
}

// PackRecord describes the last image produced from a variant's upper layer.
type PackRecord struct {
	Outfile     string      `json:"outfile"`
	Compression Compression `json:"compression"`
	UpperBuilt  time.Time   `json:"upper_built"`
}

// LayerState is the persisted per-variant build record. Fields are written only
// after the corresponding stage succeeds.
type LayerState struct {
	// Lower holds the upstream fingerprints of record from the last successful lower rebuild or patch.
	Lower UpstreamFingerprints `json:"lower"`
	// LowerDigest is the spec digest the lower layer was last provisioned with.
	LowerDigest string `json:"lower_digest,omitempty"`
	// UpperManifestDigest is the digest of the owned-file manifest the upper layer was built against.
	UpperManifestDigest string `json:"upper_manifest_digest,omitempty"`
	// UpperDigest is the spec digest the upper layer was built with.
	UpperDigest string `json:"upper_digest,omitempty"`
	// UpperBuilt is when the upper layer last finished building.
	UpperBuilt time.Time `json:"upper_built,omitzero"`
	// Pack is the last successful pack, if any.
	Pack *PackRecord `json:"pack,omitempty"`
}

// InvalidateUpper clears the upper and pack records.
func (s LayerState) InvalidateUpper() LayerState {
	s.UpperManifestDigest = ""
	s.UpperDigest = ""
	s.UpperBuilt = time.Time{}
	s.Pack = nil
	return s
}
