package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "astromap"

// Metrics holds the Prometheus counters, histograms, and gauges for chart generation.
type Metrics struct {
	ChartsGenerated  prometheus.Counter
	GenerationErrors *prometheus.CounterVec // labels: kind={validation,upstream,internal}
	RecordsStored    *prometheus.CounterVec // labels: kind={birth,chart}
	Downloads        *prometheus.CounterVec // labels: format={svg,pdf}, outcome={ok,not_found,error}

	// Upstream computation metrics.
	UpstreamRequests *prometheus.CounterVec // labels: outcome={success,error}
	UpstreamDuration prometheus.Histogram
	UpstreamCache    *prometheus.CounterVec // labels: result={hit,miss}
	BreakerState     prometheus.Gauge       // 0 closed, 1 half-open, 2 open

	// Event publishing metrics.
	EventsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ChartsGenerated,
		m.GenerationErrors,
		m.RecordsStored,
		m.Downloads,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.UpstreamCache,
		m.BreakerState,
		m.EventsPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many instances as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ChartsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_generated_total",
			Help:      "Total natal charts generated and stored.",
		}),
		GenerationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_errors_total",
			Help:      "Chart generation failures by kind.",
		}, []string{"kind"}),
		RecordsStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_stored_total",
			Help:      "Records written to the in-memory store by kind.",
		}, []string{"kind"}),
		Downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Chart downloads by format and outcome.",
		}, []string{"format", "outcome"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Astrology API requests by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Astrology API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		UpstreamCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_cache_total",
			Help:      "Chart computation cache lookups by result.",
		}, []string{"result"}),
		BreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upstream_breaker_state",
			Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Chart events published to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}
