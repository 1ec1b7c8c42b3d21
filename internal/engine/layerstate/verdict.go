// Package layerstate decides whether the lower and upper layers of a variant
// are current, and tracks their lifecycle during one invocation.
package layerstate

import (
	"time"

	"go.trai.ch/genpack/internal/core/domain"
)

// DecideLower picks the lower-layer verdict. A missing image or a changed
// stage3 fingerprint forces a full rebuild; a changed portage snapshot alone
// is patched in place.
func DecideLower(imageExists bool, recorded, current domain.UpstreamFingerprints) domain.LowerVerdict {
	switch {
	case !imageExists:
		return domain.VerdictFullRebuild
	case recorded.Stage3.IsZero() || recorded.Stage3 != current.Stage3:
		return domain.VerdictFullRebuild
	case recorded.Portage != current.Portage:
		return domain.VerdictInPlacePatch
	default:
		return domain.VerdictReuse
	}
}

// ManifestCheck holds what is observed about lower.files.
type ManifestCheck struct {
	// LowerChanged is set when the lower layer was rebuilt or patched in this run.
	LowerChanged bool
	Exists       bool
	ModTime      time.Time
	// NewestInput is the newest modification time among tracked local inputs.
	NewestInput    time.Time
	RecordedDigest string
	CurrentDigest  string
}

// ManifestValid reports whether lower.files can be trusted. The check errs
// toward invalidation.
func ManifestValid(c ManifestCheck) bool {
	switch {
	case c.LowerChanged, !c.Exists:
		return false
	case c.NewestInput.After(c.ModTime):
		return false
	case c.RecordedDigest == "" || c.RecordedDigest != c.CurrentDigest:
		return false
	default:
		return true
	}
}

// UpperCheck holds what is observed about the upper layer.
type UpperCheck struct {
	ManifestValid          bool
	UpperExists            bool
	RecordedManifestDigest string
	CurrentManifestDigest  string
	RecordedSpecDigest     string
	CurrentSpecDigest      string
	Built                  time.Time
	NewestInput            time.Time
}

// UpperCurrent reports whether the upper layer can be kept as is.
func UpperCurrent(c UpperCheck) bool {
	switch {
	case !c.ManifestValid, !c.UpperExists, c.Built.IsZero():
		return false
	case c.RecordedManifestDigest != c.CurrentManifestDigest:
		return false
	case c.RecordedSpecDigest != c.CurrentSpecDigest:
		return false
	case c.NewestInput.After(c.Built):
		return false
	default:
		return true
	}
}

// PackCurrent reports whether the image at want.Outfile was produced from the
// current upper layer with the same compression.
func PackCurrent(outfileExists bool, recorded *domain.PackRecord, want domain.PackRecord) bool {
	if !outfileExists || recorded == nil {
		return false
	}
	return recorded.Outfile == want.Outfile &&
		recorded.Compression == want.Compression &&
		recorded.UpperBuilt.Equal(want.UpperBuilt)
}
