package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the dataset
// pipeline and the query API.
type Metrics struct {
	RowsLoaded  *prometheus.CounterVec // label: table={incidents,state_laws}
	RowsDropped prometheus.Counter

	// Geocoding metrics.
	GeocodeBatches  prometheus.Counter
	GeocodeFailures prometheus.Counter
	GeocodeCache    *prometheus.CounterVec // label: result={hit,miss}
	GeocodeDuration prometheus.Histogram

	// Query metrics.
	QueryRequests prometheus.Counter
	QueryDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gunviolence_data",
			Name:      "rows_loaded_total",
			Help:      "Rows loaded from source files, by table.",
		}, []string{"table"}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gunviolence_data",
			Name:      "rows_dropped_total",
			Help:      "Rows dropped during normalization for missing coordinates.",
		}),
		GeocodeBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gunviolence_data",
			Name:      "geocode_batches_total",
			Help:      "Batch submissions sent to the geocoding service.",
		}),
		GeocodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gunviolence_data",
			Name:      "geocode_failures_total",
			Help:      "Geocoding runs aborted by a transport or status error.",
		}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gunviolence_data",
			Name:      "geocode_cache_total",
			Help:      "Artifact cache lookups, by result.",
		}, []string{"result"}),
		GeocodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gunviolence_data",
			Name:      "geocode_duration_seconds",
			Help:      "Census batch request duration in seconds.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		QueryRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gunviolence_data",
			Name:      "query_requests_total",
			Help:      "Incident filter queries served.",
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gunviolence_data",
			Name:      "query_duration_seconds",
			Help:      "Duration of incident filter queries.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}

	prometheus.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.GeocodeBatches,
		m.GeocodeFailures,
		m.GeocodeCache,
		m.GeocodeDuration,
		m.QueryRequests,
		m.QueryDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RowsLoaded:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gunviolence_data", Name: "rows_loaded_total"}, []string{"table"}),
		RowsDropped:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gunviolence_data", Name: "rows_dropped_total"}),
		GeocodeBatches:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gunviolence_data", Name: "geocode_batches_total"}),
		GeocodeFailures: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gunviolence_data", Name: "geocode_failures_total"}),
		GeocodeCache:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gunviolence_data", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "gunviolence_data", Name: "geocode_duration_seconds"}),
		QueryRequests:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gunviolence_data", Name: "query_requests_total"}),
		QueryDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "gunviolence_data", Name: "query_duration_seconds"}),
	}
}
