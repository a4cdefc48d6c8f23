package assessments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"envrisk/internal/collectors"
	"envrisk/internal/domain"
	"envrisk/internal/metrics"
	"envrisk/internal/ports"
	"envrisk/internal/scoring"
	"envrisk/internal/thresholds"
)

// Processor executes queued assessments. It is driven by the worker pool and
// by inline (synchronous) requests.
type Processor struct {
	assessments    ports.AssessmentRepository
	jobs           ports.JobRepository
	sites          ports.SiteRepository
	collector      ports.Collector
	store          *thresholds.Store
	analyzer       *scoring.PhaseAnalyzer
	logger         *slog.Logger
	collectTimeout time.Duration
}

// NewProcessor wires a processor. collector may be nil when live collection
// is disabled.
func NewProcessor(
	assessments ports.AssessmentRepository,
	jobs ports.JobRepository,
	sites ports.SiteRepository,
	collector ports.Collector,
	store *thresholds.Store,
	collectTimeout time.Duration,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if collectTimeout <= 0 {
		collectTimeout = 30 * time.Second
	}
	scorer := scoring.NewParameterScorer(store, scoring.WithScorerLogger(logger))
	return &Processor{
		assessments:    assessments,
		jobs:           jobs,
		sites:          sites,
		collector:      collector,
		store:          store,
		analyzer:       scoring.NewPhaseAnalyzer(scorer, scoring.WithAnalyzerLogger(logger)),
		logger:         logger,
		collectTimeout: collectTimeout,
	}
}

// Process runs one assessment to completion and stores its result. The error
// return signals job failure to the runner; scoring itself never fails, only
// loading and persistence can.
func (p *Processor) Process(ctx context.Context, assessmentID string) error {
	started := time.Now()

	a, err := p.assessments.GetAssessment(ctx, assessmentID)
	if err != nil {
		return fmt.Errorf("load assessment: %w", err)
	}

	var input inputPayload
	if len(a.Input) > 0 {
		if err := json.Unmarshal(a.Input, &input); err != nil {
			return fmt.Errorf("decode input: %w", err)
		}
	}

	if err := p.jobs.UpdateProgress(ctx, assessmentID, 0.25); err != nil {
		p.logger.Warn("progress update failed", slog.String("error", err.Error()))
	}

	degraded := false
	if a.Collect {
		collected, ok := p.collect(ctx, a)
		if ok {
			if input.Measurements == nil {
				input.Measurements = collected
			} else {
				input.Measurements.Merge(collected)
			}
			if a.Kind == domain.AssessmentSnapshot {
				input.Records = append(input.Records, collectors.ToRecord(collected))
			}
		} else {
			degraded = true
		}
	}

	var result any
	switch a.Kind {
	case domain.AssessmentPhases:
		analysis := p.analyzer.Analyze(input.Measurements, a.ProjectType, a.Country)
		analysis.Metadata.Degraded = degraded
		result = analysis
	case domain.AssessmentSnapshot:
		scorer := scoring.NewCountryScorer(p.store, a.Country, p.logger)
		degraded = degraded || scorer.Degraded()
		result = scorer.ScoreRecords(input.Records)
	default:
		return fmt.Errorf("unknown assessment kind %q", a.Kind)
	}

	if err := p.jobs.UpdateProgress(ctx, assessmentID, 0.9); err != nil {
		p.logger.Warn("progress update failed", slog.String("error", err.Error()))
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := p.assessments.StoreResult(ctx, assessmentID, encoded, degraded); err != nil {
		return fmt.Errorf("store result: %w", err)
	}

	metrics.AssessmentsTotal.WithLabelValues(string(a.Kind), "completed").Inc()
	metrics.AssessmentDuration.Observe(time.Since(started).Seconds())
	p.logger.Info("assessment completed",
		slog.String("assessment_id", assessmentID),
		slog.String("kind", string(a.Kind)),
		slog.Bool("degraded", degraded),
		slog.Duration("duration", time.Since(started)))
	return nil
}

// collect fetches live measurements for the assessment's site. Failure is
// reported, not fatal: the assessment proceeds on the provided input.
func (p *Processor) collect(ctx context.Context, a domain.Assessment) (domain.Measurements, bool) {
	if p.collector == nil || a.SiteID == nil {
		return nil, false
	}
	site, err := p.sites.GetSite(ctx, *a.SiteID)
	if err != nil {
		p.logger.Warn("collection skipped, site unavailable",
			slog.String("site_id", *a.SiteID), slog.String("error", err.Error()))
		return nil, false
	}

	cctx, cancel := context.WithTimeout(ctx, p.collectTimeout)
	defer cancel()

	m, err := p.collector.Collect(cctx, site.Latitude, site.Longitude)
	if err != nil {
		p.logger.Warn("collection failed, proceeding with provided measurements",
			slog.String("site_id", *a.SiteID), slog.String("error", err.Error()))
		return nil, false
	}
	return m, true
}
