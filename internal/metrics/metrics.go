// Package metrics registers the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AssessmentsTotal counts finished assessments by kind and outcome.
	AssessmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "envrisk_assessments_total",
		Help: "Number of assessments processed, by kind and status.",
	}, []string{"kind", "status"})

	// AssessmentDuration observes end-to-end processing time per assessment.
	AssessmentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "envrisk_assessment_duration_seconds",
		Help:    "Assessment processing duration.",
		Buckets: prometheus.DefBuckets,
	})

	// ThresholdFallbacks counts country threshold loads that fell back to the
	// built-in defaults (degraded mode).
	ThresholdFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "envrisk_threshold_fallbacks_total",
		Help: "Country threshold loads that fell back to built-in defaults.",
	})

	// CollectorFailures counts failed live-collection attempts.
	CollectorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "envrisk_collector_failures_total",
		Help: "Failed collector fetches, by source.",
	}, []string{"source"})
)
