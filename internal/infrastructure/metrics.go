package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's prometheus collectors. A single instance is
// created at startup and threaded through the service layer.
type Metrics struct {
	LoadsTotal       prometheus.Counter
	LoadFailures     prometheus.Counter
	CanonicalRows    prometheus.Gauge
	CountryWarnings  prometheus.Counter
	DeriveRequests   prometheus.Counter
	ForecastRequests *prometheus.CounterVec
	ForecastFailures prometheus.Counter
	CacheHits        *prometheus.CounterVec
	CacheMisses      *prometheus.CounterVec
	LoadDuration     prometheus.Histogram
}

// NewMetrics registers all pipeline collectors on the given registerer.
// Pass prometheus.DefaultRegisterer in main, a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LoadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "indicli_loads_total",
			Help: "Number of dataset loads attempted.",
		}),
		LoadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "indicli_load_failures_total",
			Help: "Number of dataset loads that failed fatally.",
		}),
		CanonicalRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "indicli_canonical_rows",
			Help: "Canonical rows in the current dataset snapshot.",
		}),
		CountryWarnings: factory.NewCounter(prometheus.CounterOpts{
			Name: "indicli_country_warnings_total",
			Help: "Rows excluded because the country could not be standardized.",
		}),
		DeriveRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "indicli_derive_requests_total",
			Help: "Feature derivation requests served.",
		}),
		ForecastRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "indicli_forecast_requests_total",
			Help: "Forecast requests served, by method.",
		}, []string{"method"}),
		ForecastFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "indicli_forecast_failures_total",
			Help: "Forecast requests rejected with a per-request error.",
		}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "indicli_cache_hits_total",
			Help: "Memoization cache hits, by stage.",
		}, []string{"stage"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "indicli_cache_misses_total",
			Help: "Memoization cache misses, by stage.",
		}, []string{"stage"}),
		LoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "indicli_load_duration_seconds",
			Help:    "Wall time of dataset loads.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
