// Package metrics provides Prometheus metrics for the ricecast dashboard.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector used by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Data source
	datasetLoads       *prometheus.CounterVec
	datasetLoadLatency *prometheus.HistogramVec
	datasetRows        *prometheus.GaugeVec
	datasetLoadErrors  *prometheus.CounterVec

	// Evaluation
	evaluations     prometheus.Counter
	evaluationMAPE  *prometheus.GaugeVec
	evaluationRMSE  *prometheus.GaugeVec
	qualityLabels   *prometheus.CounterVec
	zeroActualsSkip prometheus.Counter

	// Presentation
	renderLatency      *prometheus.HistogramVec
	renderErrors       *prometheus.CounterVec
	chartRenderLatency *prometheus.HistogramVec
	exportsTotal       prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

// DefaultBucketsMS are latency buckets in milliseconds, matching how every
// duration in this package is recorded.
var DefaultBucketsMS = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals // read-only defaults

func init() { //nolint:gochecknoinits // global metrics setup
	Init()
}

// Init rebuilds the global manager on a fresh registry with opts applied.
// Call it at startup, before any request is served; a registry option in opts
// is overridden so GetRegistry keeps exposing the global collectors.
func Init(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	opts = append(opts, WithPrometheusRegistry(customRegistry))
	globalManager = NewManager(opts...)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ricecast",
		subsystem:        "dashboard",
		histogramBuckets: DefaultBucketsMS,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint, method and status",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.datasetLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_loads_total",
		Help:        "Number of dataset file reads",
		ConstLabels: m.constLabels,
	}, []string{"dataset"})

	m.datasetLoadLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_load_latency_milliseconds",
		Help:        "Time spent reading and parsing a dataset file",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"dataset"})

	m.datasetRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_rows",
		Help:        "Row count of the most recent read of each dataset",
		ConstLabels: m.constLabels,
	}, []string{"dataset"})

	m.datasetLoadErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_load_errors_total",
		Help:        "Dataset read failures by kind",
		ConstLabels: m.constLabels,
	}, []string{"dataset", "kind"})

	m.evaluations = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluations_total",
		Help:        "Number of error-metric computations",
		ConstLabels: m.constLabels,
	})

	m.evaluationMAPE = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluation_mape_ratio",
		Help:        "MAPE of the last evaluated selection per scenario",
		ConstLabels: m.constLabels,
	}, []string{"scenario"})

	m.evaluationRMSE = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluation_rmse",
		Help:        "RMSE of the last evaluated selection per scenario",
		ConstLabels: m.constLabels,
	}, []string{"scenario"})

	m.qualityLabels = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "quality_labels_total",
		Help:        "Quality labels handed out, by label",
		ConstLabels: m.constLabels,
	}, []string{"label"})

	m.zeroActualsSkip = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "mape_zero_actuals_skipped_total",
		Help:        "Pairs excluded from MAPE because the actual price was zero",
		ConstLabels: m.constLabels,
	})

	m.renderLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "render_latency_milliseconds",
		Help:        "Time to build a dashboard view",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"tab"})

	m.renderErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "render_errors_total",
		Help:        "Dashboard views that failed to render, by tab and kind",
		ConstLabels: m.constLabels,
	}, []string{"tab", "kind"})

	m.chartRenderLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "chart_render_latency_milliseconds",
		Help:        "Time to draw and encode a chart",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"chart", "format"})

	m.exportsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "exports_total",
		Help:        "Number of workbook exports served",
		ConstLabels: m.constLabels,
	})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Errors by component and type",
		ConstLabels: m.constLabels,
	}, []string{"component", "error_type"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_type_total",
		Help:        "Errors by type and severity",
		ConstLabels: m.constLabels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Errors by HTTP endpoint",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})
}

// RecordHTTPRequest increments the request counter.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes request latency in milliseconds.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordDatasetLoad records a successful dataset read.
func (m *Manager) RecordDatasetLoad(dataset string, rows int, latencyMs float64) {
	m.datasetLoads.WithLabelValues(dataset).Inc()
	m.datasetLoadLatency.WithLabelValues(dataset).Observe(latencyMs)
	m.datasetRows.WithLabelValues(dataset).Set(float64(rows))
}

// RecordDatasetLoadError records a failed dataset read.
func (m *Manager) RecordDatasetLoadError(dataset, kind string) {
	m.datasetLoadErrors.WithLabelValues(dataset, kind).Inc()
}

// RecordEvaluation records the outcome of one metrics computation.
func (m *Manager) RecordEvaluation(scenarioID int, mape, rmse float64, label string, zeroActuals int) {
	scenario := strconv.Itoa(scenarioID)
	m.evaluations.Inc()
	m.evaluationMAPE.WithLabelValues(scenario).Set(mape)
	m.evaluationRMSE.WithLabelValues(scenario).Set(rmse)
	m.qualityLabels.WithLabelValues(label).Inc()
	if zeroActuals > 0 {
		m.zeroActualsSkip.Add(float64(zeroActuals))
	}
}

// RecordRender observes the time spent building a view.
func (m *Manager) RecordRender(tab string, latencyMs float64) {
	m.renderLatency.WithLabelValues(tab).Observe(latencyMs)
}

// RecordRenderError counts a failed view.
func (m *Manager) RecordRenderError(tab, kind string) {
	m.renderErrors.WithLabelValues(tab, kind).Inc()
}

// RecordChartRender observes chart drawing latency.
func (m *Manager) RecordChartRender(chart, format string, latencyMs float64) {
	m.chartRenderLatency.WithLabelValues(chart, format).Observe(latencyMs)
}

// RecordExport counts a served workbook.
func (m *Manager) RecordExport() {
	m.exportsTotal.Inc()
}

// RecordErrorByComponent increments errors for a component.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType increments errors for a type/severity pair.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint increments errors for an endpoint.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	m.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	m.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	m.systemGCPauseTime.Observe(pauseMs)
}

// Package-level helpers delegate to the global manager.

// RecordHTTPRequest increments the request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration observes request latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, durationMs)
}

// RecordDatasetLoad records a successful dataset read.
func RecordDatasetLoad(dataset string, rows int, latencyMs float64) {
	globalManager.RecordDatasetLoad(dataset, rows, latencyMs)
}

// RecordDatasetLoadError records a failed dataset read.
func RecordDatasetLoadError(dataset, kind string) {
	globalManager.RecordDatasetLoadError(dataset, kind)
}

// RecordEvaluation records the outcome of one metrics computation.
func RecordEvaluation(scenarioID int, mape, rmse float64, label string, zeroActuals int) {
	globalManager.RecordEvaluation(scenarioID, mape, rmse, label, zeroActuals)
}

// RecordRender observes the time spent building a view.
func RecordRender(tab string, latencyMs float64) {
	globalManager.RecordRender(tab, latencyMs)
}

// RecordRenderError counts a failed view.
func RecordRenderError(tab, kind string) {
	globalManager.RecordRenderError(tab, kind)
}

// RecordChartRender observes chart drawing latency.
func RecordChartRender(chart, format string, latencyMs float64) {
	globalManager.RecordChartRender(chart, format, latencyMs)
}

// RecordExport counts a served workbook.
func RecordExport() {
	globalManager.RecordExport()
}

// RecordErrorByComponent increments errors for a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// RecordErrorByType increments errors for a type/severity pair.
func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

// RecordErrorByEndpoint increments errors for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystemMemoryUsage sets the heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.UpdateSystemMemoryUsage(bytes)
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.UpdateSystemGoroutineCount(count)
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.RecordSystemGCPauseTime(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
