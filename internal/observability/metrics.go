package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// aggregation pipeline.
type Metrics struct {
	LookupsTotal   *prometheus.CounterVec // labels: source={coordinates,city}
	LookupDuration prometheus.Histogram
	LookupCache    *prometheus.CounterVec // labels: result={hit,miss}

	// Per-section fan-out metrics.
	SectionErrors   *prometheus.CounterVec   // labels: section
	UpstreamLatency *prometheus.HistogramVec // labels: provider
}

// NewMetrics creates and registers all lookup metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		LookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "terrasky",
			Name:      "lookups_total",
			Help:      "Total aggregated lookups by input source.",
		}, []string{"source"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "terrasky",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of a complete aggregated lookup.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		LookupCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "terrasky",
			Name:      "lookup_cache_total",
			Help:      "Aggregated lookup cache results.",
		}, []string{"result"}),
		SectionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "terrasky",
			Name:      "section_errors_total",
			Help:      "Failed response sections by section name.",
		}, []string{"section"}),
		UpstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "terrasky",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API request duration by provider.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
	}

	prometheus.MustRegister(
		m.LookupsTotal,
		m.LookupDuration,
		m.LookupCache,
		m.SectionErrors,
		m.UpstreamLatency,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		LookupsTotal:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "terrasky", Name: "lookups_total"}, []string{"source"}),
		LookupDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "terrasky", Name: "lookup_duration_seconds"}),
		LookupCache:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "terrasky", Name: "lookup_cache_total"}, []string{"result"}),
		SectionErrors:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "terrasky", Name: "section_errors_total"}, []string{"section"}),
		UpstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "terrasky", Name: "upstream_request_duration_seconds"}, []string{"provider"}),
	}
}
