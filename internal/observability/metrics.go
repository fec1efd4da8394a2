package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "firereport"

// Metrics holds the Prometheus counters, histograms, and gauges for report
// runs, the dashboard, and the outbound adapters.
type Metrics struct {
	RecordsLoaded   prometheus.Counter
	RowsDropped     prometheus.Counter
	AcresImputed    prometheus.Counter
	ReportDuration  prometheus.Histogram
	ChartsRendered  *prometheus.CounterVec // labels: chart, outcome={success,error}
	DashboardReady  prometheus.Gauge
	RecordsExported *prometheus.CounterVec // labels: sink

	// Dashboard metrics.
	DashboardUpdates   *prometheus.CounterVec // labels: control, outcome={applied,rejected}
	DashboardRecompute prometheus.Histogram

	// Kafka publication.
	RecordsPublished prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: method=reverse, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: method=reverse, result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Fire records parsed from the source file.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Records removed during cleaning for missing coordinates.",
		}),
		AcresImputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "acres_imputed_total",
			Help:      "Records whose estimated acres were filled with the size-class mean.",
		}),
		ReportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Duration of a complete report run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "Chart renders by chart and outcome.",
		}, []string{"chart", "outcome"}),
		DashboardReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dashboard_ready",
			Help:      "1 when the dashboard event loop is accepting changes, 0 otherwise.",
		}),
		RecordsExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_exported_total",
			Help:      "Records written by each export sink.",
		}, []string{"sink"}),
		DashboardUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_updates_total",
			Help:      "Dashboard control changes by control and outcome.",
		}, []string{"control", "outcome"}),
		DashboardRecompute: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dashboard_recompute_duration_seconds",
			Help:      "Time to filter and regroup the summary after a change.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      "Fire records written to the Kafka topic.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.RecordsLoaded,
		m.RowsDropped,
		m.AcresImputed,
		m.ReportDuration,
		m.ChartsRendered,
		m.DashboardReady,
		m.RecordsExported,
		m.DashboardUpdates,
		m.DashboardRecompute,
		m.RecordsPublished,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsLoaded:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "records_loaded_total"}),
		RowsDropped:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "rows_dropped_total"}),
		AcresImputed:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "acres_imputed_total"}),
		ReportDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "report_duration_seconds"}),
		ChartsRendered:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "charts_rendered_total"}, []string{"chart", "outcome"}),
		DashboardReady:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "dashboard_ready"}),
		RecordsExported:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "records_exported_total"}, []string{"sink"}),
		DashboardUpdates:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "dashboard_updates_total"}, []string{"control", "outcome"}),
		DashboardRecompute: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "dashboard_recompute_duration_seconds"}),
		RecordsPublished:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "records_published_total"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_requests_total"}, []string{"method", "outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_cache_total"}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "geocode_api_duration_seconds"}, []string{"method"}),
		GeocodeEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "geocode_enabled"}),
	}
}
