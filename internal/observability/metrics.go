package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// horizon-events service.
type Metrics struct {
	SchedulerRunning prometheus.Gauge

	// Computation metrics.
	Computations  *prometheus.CounterVec   // labels: solver={precision_remote,local_fallback}, outcome={success,error}
	SolveDuration *prometheus.HistogramVec // labels: solver={precision_remote,local_fallback}
	FallbackRuns  prometheus.Counter

	// Reconciler metrics.
	RecomputeTriggers *prometheus.CounterVec // labels: reason
	ResultsIgnored    prometheus.Counter

	// Ephemeris client metrics.
	EphemerisRequests *prometheus.CounterVec   // labels: outcome={success,error}
	EphemerisCache    *prometheus.CounterVec   // labels: result={hit,miss}
	EphemerisDuration prometheus.Histogram
	EphemerisEnabled  prometheus.Gauge

	// Outbound queue metrics.
	RecordsPublished prometheus.Counter
	RecordsDropped   prometheus.Counter
	QueueDepth       prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "horizon",
			Name:      "scheduler_running",
			Help:      "1 when the scheduler loop is active, 0 when shut down.",
		}),
		Computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "horizon",
			Name:      "computations_total",
			Help:      "Solver runs by solver and outcome.",
		}, []string{"solver", "outcome"}),
		SolveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "horizon",
			Name:      "solve_duration_seconds",
			Help:      "Duration of one full-day event computation.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"solver"}),
		FallbackRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "horizon",
			Name:      "fallback_runs_total",
			Help:      "Synchronous local-fallback computations after a remote failure.",
		}),
		RecomputeTriggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "horizon",
			Name:      "recompute_triggers_total",
			Help:      "Staleness triggers by reason.",
		}, []string{"reason"}),
		ResultsIgnored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "horizon",
			Name:      "results_ignored_total",
			Help:      "Results discarded on arrival because their target was superseded.",
		}),
		EphemerisRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "horizon",
			Name:      "ephemeris_requests_total",
			Help:      "Remote ephemeris requests by outcome.",
		}, []string{"outcome"}),
		EphemerisCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "horizon",
			Name:      "ephemeris_cache_total",
			Help:      "Ephemeris cache lookups by result.",
		}, []string{"result"}),
		EphemerisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "horizon",
			Name:      "ephemeris_request_duration_seconds",
			Help:      "Remote ephemeris request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		EphemerisEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "horizon",
			Name:      "ephemeris_enabled",
			Help:      "1 when the remote ephemeris source is enabled, 0 otherwise.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "horizon",
			Name:      "records_published_total",
			Help:      "Wire records successfully handed to the sink.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "horizon",
			Name:      "records_dropped_total",
			Help:      "Wire records dropped after a failed send.",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "horizon",
			Name:      "send_queue_depth",
			Help:      "Records waiting in the outbound send queue.",
		}),
	}

	prometheus.MustRegister(
		m.SchedulerRunning,
		m.Computations,
		m.SolveDuration,
		m.FallbackRuns,
		m.RecomputeTriggers,
		m.ResultsIgnored,
		m.EphemerisRequests,
		m.EphemerisCache,
		m.EphemerisDuration,
		m.EphemerisEnabled,
		m.RecordsPublished,
		m.RecordsDropped,
		m.QueueDepth,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SchedulerRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "horizon", Name: "scheduler_running"}),
		Computations:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "horizon", Name: "computations_total"}, []string{"solver", "outcome"}),
		SolveDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "horizon", Name: "solve_duration_seconds"}, []string{"solver"}),
		FallbackRuns:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "horizon", Name: "fallback_runs_total"}),
		RecomputeTriggers: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "horizon", Name: "recompute_triggers_total"}, []string{"reason"}),
		ResultsIgnored:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "horizon", Name: "results_ignored_total"}),
		EphemerisRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "horizon", Name: "ephemeris_requests_total"}, []string{"outcome"}),
		EphemerisCache:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "horizon", Name: "ephemeris_cache_total"}, []string{"result"}),
		EphemerisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "horizon", Name: "ephemeris_request_duration_seconds"}),
		EphemerisEnabled:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "horizon", Name: "ephemeris_enabled"}),
		RecordsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "horizon", Name: "records_published_total"}),
		RecordsDropped:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "horizon", Name: "records_dropped_total"}),
		QueueDepth:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "horizon", Name: "send_queue_depth"}),
	}
}
