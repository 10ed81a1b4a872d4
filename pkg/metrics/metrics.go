package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the extraction-to-conversion pipeline.
// A nil *Metrics is valid and records nothing, so services can be built
// without metrics in tests.
type Metrics struct {
	// Matching outcomes by candidate kind and resulting status
	MatchOutcome *prometheus.CounterVec

	// Oracle call latency
	OracleLatency prometheus.Histogram

	// Conversion outcomes by candidate kind and result (created/skipped/failed)
	ConversionOutcome *prometheus.CounterVec

	// Minutes ingestion latency by outcome (ok/error)
	IngestionLatency *prometheus.HistogramVec

	// Conversations written per successful ingestion
	IngestionConversations prometheus.Histogram
}

// New creates a new Metrics instance with all pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		MatchOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "minutes_engine_match_outcomes_total",
			Help: "Total candidate matching outcomes by kind and status",
		}, []string{"kind", "status"}),

		OracleLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "minutes_engine_oracle_duration_seconds",
			Help:    "Duration of match oracle proposals",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		ConversionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "minutes_engine_conversion_outcomes_total",
			Help: "Total candidate conversion outcomes by kind and result",
		}, []string{"kind", "result"}),

		IngestionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "minutes_engine_ingestion_duration_seconds",
			Help:    "Duration of minutes ingestion runs by outcome",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"outcome"}),

		IngestionConversations: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "minutes_engine_ingestion_conversations",
			Help:    "Conversations written per successful ingestion run",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}
}

// IncrementMatchOutcome records one candidate resolution.
func (m *Metrics) IncrementMatchOutcome(kind, status string) {
	if m != nil {
		m.MatchOutcome.WithLabelValues(kind, status).Inc()
	}
}

// ObserveOracleLatency records the duration of one oracle proposal.
func (m *Metrics) ObserveOracleLatency(d time.Duration) {
	if m != nil {
		m.OracleLatency.Observe(d.Seconds())
	}
}

// IncrementConversionOutcome records one conversion attempt result.
func (m *Metrics) IncrementConversionOutcome(kind, result string) {
	if m != nil {
		m.ConversionOutcome.WithLabelValues(kind, result).Inc()
	}
}

// ObserveIngestion records one ingestion run.
func (m *Metrics) ObserveIngestion(outcome string, d time.Duration, conversations int) {
	if m != nil {
		m.IngestionLatency.WithLabelValues(outcome).Observe(d.Seconds())
		if outcome == "ok" {
			m.IngestionConversations.Observe(float64(conversations))
		}
	}
}
