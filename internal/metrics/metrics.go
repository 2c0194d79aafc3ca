package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StepRuns counts pipeline step executions by role and final status
	StepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: "pipeline",
			Name:      "step_runs_total",
			Help:      "Pipeline step executions by role and status",
		},
		[]string{"role", "status"},
	)

	// StepDuration observes wall-clock duration of pipeline steps
	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trading",
			Subsystem: "pipeline",
			Name:      "step_duration_seconds",
			Help:      "Duration of pipeline steps",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"role"},
	)

	// ModelRequestDuration observes LLM round-trip latency
	ModelRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "trading",
			Subsystem: "model",
			Name:      "request_duration_seconds",
			Help:      "Latency of hosted model requests",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30},
		},
	)

	// ModelErrors counts failed LLM requests
	ModelErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: "model",
			Name:      "errors_total",
			Help:      "Failed hosted model requests",
		},
	)

	// CacheHits counts market data cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: "data",
			Name:      "cache_hits_total",
			Help:      "Market data cache hits",
		},
	)

	// CacheMisses counts market data cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: "data",
			Name:      "cache_misses_total",
			Help:      "Market data cache misses",
		},
	)

	// DataFallbacks counts synthetic data fallbacks after fetch failures
	DataFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: "data",
			Name:      "synthetic_fallbacks_total",
			Help:      "Times the provider fell back to synthetic data",
		},
	)
)
