package scoring

import (
	"log/slog"
	"strings"

	"envrisk/internal/domain"
	"envrisk/internal/thresholds"
)

// exceedanceTolerance separates light from major exceedance: a value within
// 10% past a bound scores 1, beyond that 2.
const exceedanceTolerance = 0.10

// targetTolerance is the implicit band around a target threshold. Global
// constant, not per-parameter.
const targetTolerance = 0.10

// OnMissing selects how a missing measurement value is scored.
type OnMissing int

const (
	// OnMissingConformant records the parameter with base score 0, excluded
	// from the medium mean. This preserves the historical behavior of never
	// penalizing absent data.
	OnMissingConformant OnMissing = iota
	// OnMissingExcluded drops the parameter from the result entirely.
	OnMissingExcluded
	// OnMissingPenalized scores a missing value as a major exceedance when a
	// threshold is configured for the parameter.
	OnMissingPenalized
)

// BaseScore is the outcome of scoring one parameter against its threshold.
type BaseScore struct {
	// Value is the 0/1/2 conformity tier.
	Value int
	// Scored reports whether the parameter contributes to the medium mean.
	Scored bool
	// Dropped marks parameters removed from the result (OnMissingExcluded).
	Dropped bool
	// Threshold is the resolved spec, nil when none was configured.
	Threshold *domain.ThresholdSpec
}

// ParameterScorer computes base conformity scores for single measurements.
type ParameterScorer struct {
	store      *thresholds.Store
	onMissing  OnMissing
	categories map[string]int
	logger     *slog.Logger
}

// ScorerOption configures a ParameterScorer.
type ScorerOption func(*ParameterScorer)

// WithOnMissing overrides the missing-value policy.
func WithOnMissing(policy OnMissing) ScorerOption {
	return func(s *ParameterScorer) { s.onMissing = policy }
}

// WithCategoricalScores overrides the label-to-score map for categorical
// values. Labels are matched lowercased and trimmed.
func WithCategoricalScores(m map[string]int) ScorerOption {
	return func(s *ParameterScorer) { s.categories = m }
}

// WithScorerLogger sets the logger used for debug traces.
func WithScorerLogger(logger *slog.Logger) ScorerOption {
	return func(s *ParameterScorer) { s.logger = logger }
}

// NewParameterScorer creates a scorer resolving thresholds through store.
func NewParameterScorer(store *thresholds.Store, opts ...ScorerOption) *ParameterScorer {
	s := &ParameterScorer{
		store:      store,
		onMissing:  OnMissingConformant,
		categories: DefaultCategoricalScores(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultCategoricalScores maps qualitative state labels to base scores.
// Labels not in the map are unscorable rather than penalized.
func DefaultCategoricalScores() map[string]int {
	return map[string]int{
		"compatible":    0,
		"conformant":    0,
		"conforme":      0,
		"preserved":     0,
		"préservé":      0,
		"maintained":    0,
		"maintenu":      0,
		"favorable":     0,
		"good":          0,
		"bon":           0,
		"acceptable":    1,
		"moderate":      1,
		"modéré":        1,
		"partial":       1,
		"partiel":       1,
		"moyen":         1,
		"degraded":      2,
		"dégradé":       2,
		"poor":          2,
		"mauvais":       2,
		"critical":      2,
		"critique":      2,
		"non-compliant": 2,
		"non conforme":  2,
	}
}

// Score computes the base conformity score for one measurement. Any panic
// while scoring is downgraded to "unscorable" so a single bad parameter
// cannot abort an analysis.
func (s *ParameterScorer) Score(parameter string, medium domain.Medium, value domain.Value, country string, phase domain.Phase) (res BaseScore) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("parameter scoring recovered, treating as unscorable",
				slog.String("parameter", parameter), slog.Any("panic", r))
			res = BaseScore{}
		}
	}()

	spec := s.store.Lookup(parameter, medium, country, phase)
	res.Threshold = spec

	if value.IsMissing() {
		switch s.onMissing {
		case OnMissingExcluded:
			return BaseScore{Threshold: spec, Dropped: true}
		case OnMissingPenalized:
			if spec != nil {
				return BaseScore{Value: 2, Scored: true, Threshold: spec}
			}
			return BaseScore{Threshold: spec}
		default:
			return BaseScore{Threshold: spec}
		}
	}

	if label, ok := value.Label(); ok {
		tier, known := s.categories[strings.ToLower(strings.TrimSpace(label))]
		if !known {
			s.logger.Debug("unknown categorical label, treating as unscorable",
				slog.String("parameter", parameter), slog.String("label", label))
			return BaseScore{Threshold: spec}
		}
		return BaseScore{Value: tier, Scored: true, Threshold: spec}
	}

	num, _ := value.Float()
	if spec == nil {
		s.logger.Debug("no threshold configured, parameter excluded from scoring",
			slog.String("parameter", parameter), slog.String("medium", string(medium)))
		return BaseScore{}
	}
	return BaseScore{Value: scoreNumeric(num, *spec), Scored: true, Threshold: spec}
}

// scoreNumeric applies the per-kind conformity rules.
func scoreNumeric(value float64, spec domain.ThresholdSpec) int {
	switch spec.Kind {
	case domain.ThresholdMax:
		return scoreAgainstBounds(value, nil, spec.Max)
	case domain.ThresholdMin:
		return scoreAgainstBounds(value, spec.Min, nil)
	case domain.ThresholdRange:
		return scoreAgainstBounds(value, spec.Min, spec.Max)
	case domain.ThresholdTarget:
		lo := *spec.Target * (1 - targetTolerance)
		hi := *spec.Target * (1 + targetTolerance)
		return scoreAgainstBounds(value, &lo, &hi)
	}
	return 0
}

// scoreAgainstBounds returns 0 inside the bounds, 1 within the exceedance
// tolerance past either bound, 2 beyond.
func scoreAgainstBounds(value float64, min, max *float64) int {
	if max != nil && value > *max {
		if value <= *max*(1+exceedanceTolerance) {
			return 1
		}
		return 2
	}
	if min != nil && value < *min {
		if value >= *min*(1-exceedanceTolerance) {
			return 1
		}
		return 2
	}
	return 0
}
