package domain

import "fmt"

// Medium is one of the five environmental compartments an assessment covers.
type Medium string

const (
	MediumWater      Medium = "water"
	MediumSoil       Medium = "soil"
	MediumAir        Medium = "air"
	MediumBiological Medium = "biological"
	MediumHuman      Medium = "human"
)

// AllMedia returns the media in their canonical reporting order.
func AllMedia() []Medium {
	return []Medium{MediumWater, MediumSoil, MediumAir, MediumBiological, MediumHuman}
}

// ParseMedium validates a medium name.
func ParseMedium(s string) (Medium, error) {
	m := Medium(s)
	switch m {
	case MediumWater, MediumSoil, MediumAir, MediumBiological, MediumHuman:
		return m, nil
	}
	return "", fmt.Errorf("unknown medium %q", s)
}

// Phase is one of the four SLRI project lifecycle phases.
type Phase string

const (
	PhasePreConstruction Phase = "PRE_CONSTRUCTION"
	PhaseConstruction    Phase = "CONSTRUCTION"
	PhaseOperation       Phase = "OPERATION"
	PhaseDecommissioning Phase = "DECOMMISSIONING"
)

// AllPhases returns the phases in lifecycle order. Tie-breaking in the
// synthesis relies on this order.
func AllPhases() []Phase {
	return []Phase{PhasePreConstruction, PhaseConstruction, PhaseOperation, PhaseDecommissioning}
}

// Label returns the human-readable phase name used in reports.
func (p Phase) Label() string {
	switch p {
	case PhasePreConstruction:
		return "Pre-construction"
	case PhaseConstruction:
		return "Construction"
	case PhaseOperation:
		return "Operation"
	case PhaseDecommissioning:
		return "Decommissioning"
	}
	return string(p)
}

// ParsePhase validates a phase key.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	switch p {
	case PhasePreConstruction, PhaseConstruction, PhaseOperation, PhaseDecommissioning:
		return p, nil
	}
	return "", fmt.Errorf("unknown phase %q", s)
}
