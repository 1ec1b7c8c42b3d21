package domain

import "strings"

// Stage is one step of the packaging pipeline.
type Stage int

const (
	// StageLower builds or refreshes the base layer.
	StageLower Stage = iota
	// StageUpper regenerates the customization overlay.
	StageUpper
	// StagePack compresses the overlay into the output image.
	StagePack
)

func (s Stage) String() string {
	switch s {
	case StageLower:
		return "lower"
	case StageUpper:
		return "upper"
	case StagePack:
		return "pack"
	default:
		return "unknown"
	}
}

// StageSet is a subset of the pipeline stages.
type StageSet uint8

// AllStages selects lower, upper and pack.
var AllStages = NewStageSet(StageLower, StageUpper, StagePack)

// NewStageSet builds a set from stages.
func NewStageSet(stages ...Stage) StageSet {
	var s StageSet
	for _, st := range stages {
		s |= 1 << st
	}
	return s
}

// Has reports whether st is in the set.
func (s StageSet) Has(st Stage) bool {
	return s&(1<<st) != 0
}

func (s StageSet) String() string {
	var names []string
	for _, st := range []Stage{StageLower, StageUpper, StagePack} {
		if s.Has(st) {
			names = append(names, st.String())
		}
	}
	return strings.Join(names, ",")
}
