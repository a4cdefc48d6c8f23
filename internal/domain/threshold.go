package domain

import "fmt"

// ThresholdKind selects how a measured value is compared to its reference.
type ThresholdKind string

const (
	ThresholdRange  ThresholdKind = "range"
	ThresholdMax    ThresholdKind = "max"
	ThresholdMin    ThresholdKind = "min"
	ThresholdTarget ThresholdKind = "target"
)

// ThresholdSpec is a reference bound for one parameter in one medium.
// Range requires both Min and Max with Min < Max; Max/Min require exactly that
// bound; Target requires a single reference value around which scoring applies
// a fixed tolerance band.
type ThresholdSpec struct {
	Parameter string        `json:"parameter"`
	Medium    Medium        `json:"medium"`
	Kind      ThresholdKind `json:"kind"`
	Min       *float64      `json:"min,omitempty"`
	Max       *float64      `json:"max,omitempty"`
	Target    *float64      `json:"target,omitempty"`
	Unit      string        `json:"unit,omitempty"`
}

// Validate checks the per-kind bound invariants.
func (s ThresholdSpec) Validate() error {
	switch s.Kind {
	case ThresholdRange:
		if s.Min == nil || s.Max == nil {
			return fmt.Errorf("threshold %s: range requires both min and max", s.Parameter)
		}
		if *s.Min >= *s.Max {
			return fmt.Errorf("threshold %s: range requires min < max (got %g >= %g)", s.Parameter, *s.Min, *s.Max)
		}
	case ThresholdMax:
		if s.Max == nil {
			return fmt.Errorf("threshold %s: kind max requires max", s.Parameter)
		}
		if s.Min != nil {
			return fmt.Errorf("threshold %s: kind max must not set min", s.Parameter)
		}
	case ThresholdMin:
		if s.Min == nil {
			return fmt.Errorf("threshold %s: kind min requires min", s.Parameter)
		}
		if s.Max != nil {
			return fmt.Errorf("threshold %s: kind min must not set max", s.Parameter)
		}
	case ThresholdTarget:
		if s.Target == nil {
			return fmt.Errorf("threshold %s: kind target requires a target value", s.Parameter)
		}
	default:
		return fmt.Errorf("threshold %s: unknown kind %q", s.Parameter, s.Kind)
	}
	return nil
}

// Float64 is a convenience for building *float64 bounds.
func Float64(f float64) *float64 { return &f }
