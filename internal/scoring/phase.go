package scoring

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"envrisk/internal/domain"
)

// Factors are the phase-specific temporal/spatial multipliers. The final
// parameter score is base * (Duration + Extent + Frequency): the factors
// combine additively and scale the base score multiplicatively.
type Factors struct {
	Duration  int `json:"duration"`
	Extent    int `json:"extent"`
	Frequency int `json:"frequency"`
}

// Sum returns the additive factor combination applied to base scores.
func (f Factors) Sum() int { return f.Duration + f.Extent + f.Frequency }

// FactorsFor returns the factor table entry for a phase. Operation weighs
// heaviest (long duration, continuous frequency); pre-construction is the
// lightest.
func FactorsFor(phase domain.Phase) Factors {
	switch phase {
	case domain.PhasePreConstruction:
		return Factors{Duration: 1, Extent: 1, Frequency: 1}
	case domain.PhaseConstruction:
		return Factors{Duration: 2, Extent: 2, Frequency: 3}
	case domain.PhaseOperation:
		return Factors{Duration: 4, Extent: 2, Frequency: 4}
	case domain.PhaseDecommissioning:
		return Factors{Duration: 1, Extent: 2, Frequency: 2}
	}
	return Factors{Duration: 1, Extent: 1, Frequency: 1}
}

// majorRiskCutoff marks a parameter as a major risk when its final score
// exceeds it; complianceCutoff is the upper bound of the compliant band.
const (
	majorRiskCutoff  = 8.0
	complianceCutoff = 4.0
)

// Methodology is the label recorded in analysis metadata.
const Methodology = "SLRI - standardized lifecycle risk and impact assessment"

// PhaseAnalyzer runs the four-phase analysis. It is a pure pipeline over
// in-memory measurements; two analyses may run concurrently without
// coordination.
type PhaseAnalyzer struct {
	scorer *ParameterScorer
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// AnalyzerOption configures a PhaseAnalyzer.
type AnalyzerOption func(*PhaseAnalyzer)

// WithClock injects the timestamp source, for deterministic tests.
func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *PhaseAnalyzer) { a.now = now }
}

// WithIDSource injects the analysis id generator.
func WithIDSource(newID func() string) AnalyzerOption {
	return func(a *PhaseAnalyzer) { a.newID = newID }
}

// WithAnalyzerLogger sets the analyzer logger.
func WithAnalyzerLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *PhaseAnalyzer) { a.logger = logger }
}

// NewPhaseAnalyzer creates an analyzer scoring parameters with scorer.
func NewPhaseAnalyzer(scorer *ParameterScorer, opts ...AnalyzerOption) *PhaseAnalyzer {
	a := &PhaseAnalyzer{
		scorer: scorer,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores all four lifecycle phases over one measurement snapshot and
// synthesizes the project-level verdict. The input is never mutated.
func (a *PhaseAnalyzer) Analyze(measurements domain.Measurements, projectType, country string) domain.PhaseAnalysis {
	if projectType == "" {
		projectType = "general"
	}
	if country == "" {
		country = "default"
	}

	analysis := domain.PhaseAnalysis{
		Metadata: domain.AnalysisMetadata{
			ID:          a.newID(),
			Date:        a.now().UTC(),
			ProjectType: projectType,
			Country:     country,
			Methodology: Methodology,
		},
		Phases: make([]domain.PhaseResult, 0, 4),
	}

	for _, phase := range domain.AllPhases() {
		a.logger.Debug("analyzing phase", slog.String("phase", string(phase)))
		analysis.Phases = append(analysis.Phases, a.analyzePhase(phase, measurements, country))
	}
	analysis.Synthesis = Synthesize(analysis.Phases)
	return analysis
}

func (a *PhaseAnalyzer) analyzePhase(phase domain.Phase, measurements domain.Measurements, country string) domain.PhaseResult {
	factors := FactorsFor(phase)

	result := domain.PhaseResult{
		Phase: phase,
		Label: phase.Label(),
		Media: make([]domain.MediumScore, 0, len(measurements)),
	}

	var sum float64
	defined := 0
	for _, medium := range domain.AllMedia() {
		params, ok := measurements[medium]
		if !ok {
			continue
		}
		ms := a.scoreMedium(phase, medium, params, factors, country)
		result.Media = append(result.Media, ms)
		if ms.Defined {
			sum += ms.Mean
			defined++
		}
	}

	if defined > 0 {
		result.Score = sum / float64(defined)
		result.Defined = true
	}
	result.Band = Classify(result.Score)
	result.MajorRisks = majorRisks(result.Media)
	result.Recommendations = a.recommendations(phase, result.Band, result.MajorRisks)
	return result
}

// scoreMedium scores every parameter of one medium for one phase. Parameters
// are visited in name order so repeated analyses are bit-identical.
func (a *PhaseAnalyzer) scoreMedium(phase domain.Phase, medium domain.Medium, params map[string]domain.Measurement, factors Factors, country string) domain.MediumScore {
	ms := domain.MediumScore{
		Medium:     medium,
		Parameters: make([]domain.ParameterScore, 0, len(params)),
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var sum float64
	contributing := 0
	for _, name := range names {
		meas := params[name]
		base := a.scorer.Score(name, medium, meas.Value, country, phase)
		if base.Dropped {
			continue
		}

		final := float64(base.Value * factors.Sum())
		ps := domain.ParameterScore{
			Parameter:  name,
			Medium:     medium,
			Value:      meas.Value,
			Unit:       meas.Unit,
			Threshold:  base.Threshold,
			BaseScore:  base.Value,
			FinalScore: final,
			Band:       Classify(final),
			Compliant:  final <= complianceCutoff,
			Scored:     base.Scored,
		}
		ms.Parameters = append(ms.Parameters, ps)

		if base.Scored {
			sum += final
			contributing++
			if final > complianceCutoff {
				ms.NonCompliant++
			}
		}
	}

	if contributing > 0 {
		ms.Mean = sum / float64(contributing)
		ms.Defined = true
	}
	ms.Band = Classify(ms.Mean)
	return ms
}

// majorRisks collects parameters whose final score exceeds the major-risk
// cutoff, sorted descending by score. The sort is stable so equal scores keep
// medium enumeration order.
func majorRisks(media []domain.MediumScore) []domain.ParameterScore {
	risks := make([]domain.ParameterScore, 0)
	for _, ms := range media {
		for _, ps := range ms.Parameters {
			if ps.FinalScore > majorRiskCutoff {
				risks = append(risks, ps)
			}
		}
	}
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].FinalScore > risks[j].FinalScore
	})
	return risks
}

func (a *PhaseAnalyzer) recommendations(phase domain.Phase, band domain.RiskBand, risks []domain.ParameterScore) []string {
	recs := append([]string{}, bandActions(band)...)

	if len(risks) > 0 {
		recs = append(recs, fmt.Sprintf("Particular attention required for %d high-risk parameter(s)", len(risks)))
		top := risks
		if len(top) > 3 {
			top = top[:3]
		}
		for _, r := range top {
			recs = append(recs, fmt.Sprintf("- %s (%s): score %.1f - reinforced monitoring required",
				r.Parameter, r.Medium, r.FinalScore))
		}
	}

	recs = append(recs, phaseActions(phase)...)
	return recs
}

// phaseActions is the fixed phase-specific action list.
func phaseActions(phase domain.Phase) []string {
	switch phase {
	case domain.PhasePreConstruction:
		return []string{
			"Establish the environmental baseline",
			"Set up the monitoring system",
		}
	case domain.PhaseConstruction:
		return []string{
			"Monitor temporary impacts",
			"Apply mitigation measures",
		}
	case domain.PhaseOperation:
		return []string{
			"Maintain continuous monitoring",
			"Optimize environmental performance",
		}
	case domain.PhaseDecommissioning:
		return []string{
			"Plan site restoration",
			"Manage demolition waste",
		}
	}
	return nil
}
