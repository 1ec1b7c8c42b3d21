package layerstate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/genpack/internal/engine/layerstate"
)

func fps(stage3, portage string) domain.UpstreamFingerprints {
	return domain.UpstreamFingerprints{Stage3: domain.Fingerprint(stage3), Portage: domain.Fingerprint(portage)}
}

func TestDecideLower(t *testing.T) {
	tests := []struct {
		name     string
		exists   bool
		recorded domain.UpstreamFingerprints
		current  domain.UpstreamFingerprints
		want     domain.LowerVerdict
	}{
		{"no image", false, fps("s", "p"), fps("s", "p"), domain.VerdictFullRebuild},
		{"no record", true, fps("", ""), fps("s", "p"), domain.VerdictFullRebuild},
		{"stage3 changed", true, fps("s1", "p"), fps("s2", "p"), domain.VerdictFullRebuild},
		{"both changed", true, fps("s1", "p1"), fps("s2", "p2"), domain.VerdictFullRebuild},
		{"portage changed", true, fps("s", "p1"), fps("s", "p2"), domain.VerdictInPlacePatch},
		{"unchanged", true, fps("s", "p"), fps("s", "p"), domain.VerdictReuse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, layerstate.DecideLower(tt.exists, tt.recorded, tt.current))
		})
	}
}

func TestDecideLower_NeverReusesAfterUpstreamChange(t *testing.T) {
	base := fps("s", "p")
	for _, changed := range []domain.UpstreamFingerprints{fps("s'", "p"), fps("s", "p'"), fps("s'", "p'")} {
		assert.NotEqual(t, domain.VerdictReuse, layerstate.DecideLower(true, base, changed))
	}
}

func TestManifestValid(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	valid := layerstate.ManifestCheck{
		Exists:         true,
		ModTime:        t0,
		NewestInput:    t0.Add(-time.Hour),
		RecordedDigest: "d",
		CurrentDigest:  "d",
	}
	assert.True(t, layerstate.ManifestValid(valid))

	changed := valid
	changed.LowerChanged = true
	assert.False(t, layerstate.ManifestValid(changed), "a rebuilt lower layer always invalidates the manifest")

	missing := valid
	missing.Exists = false
	assert.False(t, layerstate.ManifestValid(missing))

	newer := valid
	newer.NewestInput = t0.Add(time.Second)
	assert.False(t, layerstate.ManifestValid(newer))

	digest := valid
	digest.CurrentDigest = "other"
	assert.False(t, layerstate.ManifestValid(digest))
}

func TestUpperCurrent(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	current := layerstate.UpperCheck{
		ManifestValid:          true,
		UpperExists:            true,
		RecordedManifestDigest: "m",
		CurrentManifestDigest:  "m",
		RecordedSpecDigest:     "s",
		CurrentSpecDigest:      "s",
		Built:                  t0,
		NewestInput:            t0.Add(-time.Minute),
	}
	assert.True(t, layerstate.UpperCurrent(current))

	for name, mutate := range map[string]func(*layerstate.UpperCheck){
		"manifest invalid": func(c *layerstate.UpperCheck) { c.ManifestValid = false },
		"no upper dir":     func(c *layerstate.UpperCheck) { c.UpperExists = false },
		"manifest digest":  func(c *layerstate.UpperCheck) { c.CurrentManifestDigest = "x" },
		"spec digest":      func(c *layerstate.UpperCheck) { c.CurrentSpecDigest = "x" },
		"newer input":      func(c *layerstate.UpperCheck) { c.NewestInput = t0.Add(time.Minute) },
		"never built":      func(c *layerstate.UpperCheck) { c.Built = time.Time{} },
	} {
		t.Run(name, func(t *testing.T) {
			c := current
			mutate(&c)
			assert.False(t, layerstate.UpperCurrent(c))
		})
	}
}

func TestPackCurrent(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	want := domain.PackRecord{Outfile: "a.squashfs", Compression: domain.CompressionBalanced, UpperBuilt: t0}

	assert.True(t, layerstate.PackCurrent(true, &want, want))
	assert.False(t, layerstate.PackCurrent(false, &want, want))
	assert.False(t, layerstate.PackCurrent(true, nil, want))

	other := want
	other.Compression = domain.CompressionMaximalRatio
	assert.False(t, layerstate.PackCurrent(true, &other, want))
}

func TestDigests(t *testing.T) {
	spec := domain.EffectiveSpec{Packages: []string{"a"}, BuildtimePackages: []string{"go"}}

	lower1, err := layerstate.LowerDigest(spec)
	require.NoError(t, err)
	upper1, err := layerstate.UpperDigest(spec)
	require.NoError(t, err)

	spec.Services = []string{"sshd"}
	lower2, err := layerstate.LowerDigest(spec)
	require.NoError(t, err)
	upper2, err := layerstate.UpperDigest(spec)
	require.NoError(t, err)

	assert.Equal(t, lower1, lower2, "services do not affect the lower layer")
	assert.NotEqual(t, upper1, upper2)

	spec.Use = spec.Use.Set("x", []string{"y"})
	lower3, err := layerstate.LowerDigest(spec)
	require.NoError(t, err)
	assert.NotEqual(t, lower2, lower3)

	m, err := domain.NewOwnedFileManifest([]string{"b", "a"})
	require.NoError(t, err)
	assert.Len(t, layerstate.ManifestDigest(m), 16)
}

func TestMachine_Lifecycle(t *testing.T) {
	m := layerstate.NewMachine(false, false)
	assert.Equal(t, domain.LowerAbsent, m.Lower())
	assert.Equal(t, domain.UpperStale, m.Upper())

	err := m.BeginUpper()
	require.ErrorIs(t, err, domain.ErrPrecondition)

	require.NoError(t, m.BeginLower())
	assert.Equal(t, domain.LowerBuilding, m.Lower())
	require.NoError(t, m.CompleteLower())
	assert.Equal(t, domain.LowerReady, m.Lower())

	require.NoError(t, m.BeginUpper())
	assert.Equal(t, domain.UpperBuilding, m.Upper())
	require.NoError(t, m.CompleteUpper())
	assert.Equal(t, domain.UpperReady, m.Upper())

	require.NoError(t, m.BeginLower())
	assert.Equal(t, domain.UpperStale, m.Upper(), "rebuilding the lower layer invalidates the upper layer")
}

func TestMachine_AbortLower(t *testing.T) {
	m := layerstate.NewMachine(true, true)
	require.NoError(t, m.BeginLower())
	m.AbortLower()

	assert.Equal(t, domain.LowerAbsent, m.Lower())
	assert.Equal(t, domain.UpperStale, m.Upper())
	require.Error(t, m.CompleteLower())
}

func TestMachine_UpperReadyRequiresLowerReady(t *testing.T) {
	m := layerstate.NewMachine(false, true)
	assert.Equal(t, domain.UpperStale, m.Upper())
}
