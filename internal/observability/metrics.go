package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cyclone_risk"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	Requests         *prometheus.CounterVec // labels: operation={lookup,assess,insight}
	Assessments      *prometheus.CounterVec // labels: tier
	RiskProbability  prometheus.Histogram
	DefaultedFields  *prometheus.CounterVec // labels: field
	WeatherEnabled   prometheus.Gauge
	InsightEnabled   prometheus.Gauge
	PublisherRunning prometheus.Gauge

	// Weather provider metrics.
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,not_found,error}
	WeatherCache       *prometheus.CounterVec // labels: result={hit,miss,expired}
	WeatherAPIDuration prometheus.Histogram

	// Text generation metrics.
	InsightRequests    *prometheus.CounterVec // labels: outcome={success,empty,error}
	InsightAPIDuration prometheus.Histogram

	// Report publishing metrics.
	ReportsPublished prometheus.Counter
	ReportsDropped   *prometheus.CounterVec // labels: reason={queue_full,stopped,load_failed}
	PublishBatchSize prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Requests,
		m.Assessments,
		m.RiskProbability,
		m.DefaultedFields,
		m.WeatherEnabled,
		m.InsightEnabled,
		m.PublisherRunning,
		m.WeatherRequests,
		m.WeatherCache,
		m.WeatherAPIDuration,
		m.InsightRequests,
		m.InsightAPIDuration,
		m.ReportsPublished,
		m.ReportsDropped,
		m.PublishBatchSize,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// NewUnregisteredMetrics creates Metrics for one-shot commands that never
// serve /metrics.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Dashboard operations served, by operation.",
		}, []string{"operation"}),
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Risk assessments produced, by tier.",
		}, []string{"tier"}),
		RiskProbability: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "risk_probability",
			Help:      "Distribution of assessed risk probabilities.",
			Buckets:   []float64{0.2, 0.4, 0.6, 0.8, 1.0},
		}),
		DefaultedFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "defaulted_fields_total",
			Help:      "Observation fields substituted with defaults, by field.",
		}, []string{"field"}),
		WeatherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "weather_enabled",
			Help:      "1 when current-conditions lookups are enabled, 0 otherwise.",
		}),
		InsightEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "insight_enabled",
			Help:      "1 when the AI assistant is enabled, 0 otherwise.",
		}),
		PublisherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publisher_running",
			Help:      "1 when the report publisher is active, 0 when shut down.",
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_requests_total",
			Help:      "Weather provider requests by outcome.",
		}, []string{"outcome"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_cache_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_api_duration_seconds",
			Help:      "Weather provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		InsightRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insight_requests_total",
			Help:      "Text generation requests by outcome.",
		}, []string{"outcome"}),
		InsightAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "insight_api_duration_seconds",
			Help:      "Text generation request duration in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 15, 30},
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_published_total",
			Help:      "City reports written to the report topic.",
		}),
		ReportsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_dropped_total",
			Help:      "City reports discarded before publishing, by reason.",
		}, []string{"reason"}),
		PublishBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_batch_size",
			Help:      "Number of reports per published batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
	}
}
