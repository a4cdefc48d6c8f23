package domain

import "time"

// ParameterScore is the scored outcome for a single parameter.
//
// BaseScore encodes conformity: 0 conformant, 1 light exceedance (within 10%
// of the bound), 2 major exceedance. FinalScore is the base score scaled by
// the phase duration/extent/frequency factors. Scored reports whether the
// parameter contributed to its medium mean; unscorable parameters are kept
// for visibility with a zero score.
type ParameterScore struct {
	Parameter  string         `json:"parameter"`
	Medium     Medium         `json:"medium"`
	Value      Value          `json:"value"`
	Unit       string         `json:"unit,omitempty"`
	Threshold  *ThresholdSpec `json:"threshold,omitempty"`
	BaseScore  int            `json:"base_score"`
	FinalScore float64        `json:"final_score"`
	Band       RiskBand       `json:"classification"`
	Compliant  bool           `json:"compliant"`
	Scored     bool           `json:"scored"`
	Phase      Phase          `json:"phase,omitempty"`
}

// MediumScore aggregates the parameter scores of one medium within a phase.
// Defined is false when no parameter contributed; an undefined medium must be
// excluded from any higher aggregate rather than counted as zero.
type MediumScore struct {
	Medium       Medium           `json:"medium"`
	Parameters   []ParameterScore `json:"parameters"`
	Mean         float64          `json:"mean_score"`
	Defined      bool             `json:"defined"`
	NonCompliant int              `json:"non_compliant_count"`
	Band         RiskBand         `json:"classification"`
}

// PhaseResult is the immutable outcome of analyzing one lifecycle phase.
type PhaseResult struct {
	Phase           Phase            `json:"phase"`
	Label           string           `json:"label"`
	Media           []MediumScore    `json:"media"`
	Score           float64          `json:"phase_score"`
	Defined         bool             `json:"defined"`
	Band            RiskBand         `json:"classification"`
	MajorRisks      []ParameterScore `json:"major_risks"`
	Recommendations []string         `json:"recommendations"`
}

// ProjectSynthesis combines all phase results into one project-level verdict.
type ProjectSynthesis struct {
	GlobalScore             float64          `json:"global_score"`
	Defined                 bool             `json:"defined"`
	MostCriticalPhase       Phase            `json:"most_critical_phase,omitempty"`
	MajorRisks              []ParameterScore `json:"major_risks"`
	Compliant               bool             `json:"compliant"`
	PriorityRecommendations []string         `json:"priority_recommendations"`
}

// AnalysisMetadata describes one analysis run.
type AnalysisMetadata struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	ProjectType string    `json:"project_type"`
	Country     string    `json:"country"`
	Methodology string    `json:"methodology"`
	Degraded    bool      `json:"degraded,omitempty"`
}

// PhaseAnalysis is the full result graph of one four-phase analysis run.
type PhaseAnalysis struct {
	Metadata  AnalysisMetadata `json:"metadata"`
	Phases    []PhaseResult    `json:"phases"`
	Synthesis ProjectSynthesis `json:"synthesis"`
}

// Phase returns the result for the given phase, if present.
func (a PhaseAnalysis) Phase(p Phase) (PhaseResult, bool) {
	for _, pr := range a.Phases {
		if pr.Phase == p {
			return pr, true
		}
	}
	return PhaseResult{}, false
}
