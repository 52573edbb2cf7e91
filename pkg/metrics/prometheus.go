// Package metrics provides Prometheus metrics for the COVID tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus metrics for the tracker.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Dataset retrieval
	fetchTotal    prometheus.Counter
	fetchErrors   prometheus.Counter
	fetchDuration prometheus.Histogram
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter

	// Dataset shape
	datasetRows     prometheus.Gauge
	datasetEntities prometheus.Gauge
	lastFetchUnix   prometheus.Gauge

	// Cleaning pipeline
	pipelineRuns     prometheus.Counter
	pipelineDuration prometheus.Histogram
	valuesFilled     prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "covid",
		subsystem:        "tracker",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.fetchTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_fetch_total",
		Help:      "Total number of dataset fetch attempts",
	})

	m.fetchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_fetch_errors_total",
		Help:      "Total number of failed dataset fetches",
	})

	m.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_fetch_duration_seconds",
		Help:      "Histogram of dataset fetch and parse duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_cache_hits_total",
		Help:      "Total number of dataset loads served from the TTL cache",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_cache_misses_total",
		Help:      "Total number of dataset loads that went to the source",
	})

	m.datasetRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_rows",
		Help:      "Number of observations in the last loaded dataset",
	})

	m.datasetEntities = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_entities",
		Help:      "Number of distinct entities in the last loaded dataset",
	})

	m.lastFetchUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_last_fetch_unix",
		Help:      "Unix timestamp of the last successful dataset fetch",
	})

	m.pipelineRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_runs_total",
		Help:      "Total number of cleaning pipeline runs",
	})

	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_duration_seconds",
		Help:      "Cleaning pipeline run duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.valuesFilled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_values_filled_total",
		Help:      "Total number of missing values replaced by forward-fill",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of HTTP errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)
}

// RecordFetch increments the fetch attempt counter.
func RecordFetch() {
	globalManager.fetchTotal.Inc()
}

// RecordFetchError increments the failed fetch counter.
func RecordFetchError() {
	globalManager.fetchErrors.Inc()
}

// RecordFetchDuration records a fetch+parse duration in seconds.
func RecordFetchDuration(seconds float64) {
	globalManager.fetchDuration.Observe(seconds)
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// UpdateDatasetRows sets the row count of the last loaded dataset.
func UpdateDatasetRows(rows int) {
	globalManager.datasetRows.Set(float64(rows))
}

// UpdateDatasetEntities sets the entity count of the last loaded dataset.
func UpdateDatasetEntities(entities int) {
	globalManager.datasetEntities.Set(float64(entities))
}

// UpdateLastFetchUnix sets the timestamp of the last successful fetch.
func UpdateLastFetchUnix(unix int64) {
	globalManager.lastFetchUnix.Set(float64(unix))
}

// RecordPipelineRun increments the pipeline run counter.
func RecordPipelineRun() {
	globalManager.pipelineRuns.Inc()
}

// RecordPipelineDuration records a pipeline run duration in seconds.
func RecordPipelineDuration(seconds float64) {
	globalManager.pipelineDuration.Observe(seconds)
}

// RecordValuesFilled adds to the forward-fill replacement counter.
func RecordValuesFilled(n int) {
	globalManager.valuesFilled.Add(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an HTTP error with endpoint and type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by the tracker.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
