package domain

import (
	"encoding/json"
	"fmt"
)

// RiskBand is the ordinal four-level classification used by the phase
// analyzer. It is distinct from SnapshotLevel, the three-level scale of the
// snapshot country scorer; the two must never be conflated.
type RiskBand int

const (
	RiskLow RiskBand = iota
	RiskMedium
	RiskHigh
	RiskSevere
)

func (b RiskBand) String() string {
	switch b {
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	case RiskSevere:
		return "SEVERE"
	}
	return fmt.Sprintf("RiskBand(%d)", int(b))
}

// Color returns the traffic-light color associated with the band.
func (b RiskBand) Color() string {
	switch b {
	case RiskLow:
		return "green"
	case RiskMedium:
		return "yellow"
	case RiskHigh:
		return "orange"
	case RiskSevere:
		return "red"
	}
	return ""
}

func (b RiskBand) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *RiskBand) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "LOW":
		*b = RiskLow
	case "MEDIUM":
		*b = RiskMedium
	case "HIGH":
		*b = RiskHigh
	case "SEVERE":
		*b = RiskSevere
	default:
		return fmt.Errorf("unknown risk band %q", s)
	}
	return nil
}

// SnapshotLevel is the three-level classification of the snapshot country
// scorer. Undetermined marks scores that could not be computed at all.
type SnapshotLevel string

const (
	LevelLow          SnapshotLevel = "Low"
	LevelMedium       SnapshotLevel = "Medium"
	LevelHigh         SnapshotLevel = "High"
	LevelUndetermined SnapshotLevel = "Undetermined"
)
