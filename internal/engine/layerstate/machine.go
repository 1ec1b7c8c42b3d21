package layerstate

import (
	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/zerr"
)

// ErrInvalidTransition is returned when a transition is requested from a state that does not allow it.
var ErrInvalidTransition = zerr.New("invalid layer state transition")

// Machine tracks the lower and upper layer states of one variant during an
// invocation. It is not safe for concurrent use.
type Machine struct {
	lower domain.LowerState
	upper domain.UpperState
}

// NewMachine starts from the states observed on disk.
func NewMachine(lowerReady, upperReady bool) *Machine {
	m := &Machine{lower: domain.LowerAbsent, upper: domain.UpperStale}
	if lowerReady {
		m.lower = domain.LowerReady
		if upperReady {
			m.upper = domain.UpperReady
		}
	}
	return m
}

// Lower returns the lower layer state.
func (m *Machine) Lower() domain.LowerState { return m.lower }

// Upper returns the upper layer state.
func (m *Machine) Upper() domain.UpperState { return m.upper }

// BeginLower enters LowerBuilding. Any upper layer built on the previous
// lower layer becomes stale.
func (m *Machine) BeginLower() error {
	if m.lower == domain.LowerBuilding || m.upper == domain.UpperBuilding {
		return m.invalid("begin lower")
	}
	m.lower = domain.LowerBuilding
	m.upper = domain.UpperStale
	return nil
}

// CompleteLower enters LowerReady.
func (m *Machine) CompleteLower() error {
	if m.lower != domain.LowerBuilding {
		return m.invalid("complete lower")
	}
	m.lower = domain.LowerReady
	return nil
}

// AbortLower discards the partial lower layer.
func (m *Machine) AbortLower() {
	m.lower = domain.LowerAbsent
	m.upper = domain.UpperStale
}

// InvalidateUpper marks the upper layer stale without touching the lower one.
func (m *Machine) InvalidateUpper() {
	if m.upper == domain.UpperReady {
		m.upper = domain.UpperStale
	}
}

// BeginUpper enters UpperBuilding. It requires a ready lower layer.
func (m *Machine) BeginUpper() error {
	if m.lower != domain.LowerReady {
		return &domain.PreconditionError{Stage: domain.StageUpper, Missing: "a ready lower layer"}
	}
	if m.upper == domain.UpperBuilding {
		return m.invalid("begin upper")
	}
	m.upper = domain.UpperBuilding
	return nil
}

// CompleteUpper enters UpperReady.
func (m *Machine) CompleteUpper() error {
	if m.upper != domain.UpperBuilding {
		return m.invalid("complete upper")
	}
	m.upper = domain.UpperReady
	return nil
}

// AbortUpper leaves the upper layer stale.
func (m *Machine) AbortUpper() {
	m.upper = domain.UpperStale
}

func (m *Machine) invalid(op string) error {
	return zerr.With(zerr.With(ErrInvalidTransition, "op", op), "state", m.lower.String()+"/"+m.upper.String())
}
