package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels analyses that produced a result.
	OutcomeSuccess = "success"
	// OutcomeNoData labels analyses short-circuited by an empty window.
	OutcomeNoData = "no_data"
	// OutcomeError labels failed analyses.
	OutcomeError = "error"
	// OutcomeFallback labels enrichment attempts that degraded to the
	// deterministic template.
	OutcomeFallback = "fallback"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifelens_insights",
			Name:      "analyses_total",
			Help:      "Total number of analyses handled, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	analysisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lifelens_insights",
			Name:      "analysis_seconds",
			Help:      "Analysis latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	enrichmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifelens_insights",
			Name:      "enrichments_total",
			Help:      "Narrative enrichment attempts, partitioned by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register attaches the insight-engine collectors to the supplied
// Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		analysesTotal,
		analysisDurationSeconds,
		enrichmentsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveAnalysis records an analysis duration and outcome label.
func ObserveAnalysis(duration time.Duration, outcome string) {
	switch outcome {
	case OutcomeError, OutcomeNoData:
	default:
		outcome = OutcomeSuccess
	}
	analysesTotal.WithLabelValues(outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	analysisDurationSeconds.Observe(duration.Seconds())
}

// ObserveEnrichment counts one narrative enrichment attempt.
func ObserveEnrichment(outcome string) {
	if outcome != OutcomeFallback {
		outcome = OutcomeSuccess
	}
	enrichmentsTotal.WithLabelValues(outcome).Inc()
}
