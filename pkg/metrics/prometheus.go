package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Prediction metrics
	predictions       prometheus.Counter
	predictionLatency prometheus.Histogram
	predictedScore    prometheus.Histogram
	validationErrors  *prometheus.CounterVec
	inferenceErrors   prometheus.Counter
	unknownTeams      *prometheus.CounterVec
	historySize       prometheus.Gauge
	historyLookups    *prometheus.CounterVec
	modelInfo         *prometheus.GaugeVec
	vocabularySize    prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewMetricsManager(WithPrometheusRegistry(customRegistry))
}

// NewMetricsManager creates a metrics manager and registers its metrics.
func NewMetricsManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scorecast",
		subsystem:        "predictor",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.predictions = auto.NewCounter(m.counterOpts(
		"predictions_total", "Total number of successful score predictions"))
	m.predictionLatency = auto.NewHistogram(m.histogramOpts(
		"prediction_latency_milliseconds", "Time from validated request to model output in milliseconds", m.histogramBuckets))
	m.predictedScore = auto.NewHistogram(m.histogramOpts(
		"predicted_score", "Distribution of predicted final scores",
		prometheus.LinearBuckets(80, 20, 10)))
	m.validationErrors = auto.NewCounterVec(m.counterOpts(
		"validation_errors_total", "Match snapshots rejected before feature derivation"),
		[]string{"field"})
	m.inferenceErrors = auto.NewCounter(m.counterOpts(
		"inference_errors_total", "Model invocations that failed"))
	m.unknownTeams = auto.NewCounterVec(m.counterOpts(
		"unknown_team_substitutions_total", "Team names replaced because the model does not know them"),
		[]string{"field"})
	m.historySize = auto.NewGauge(m.gaugeOpts(
		"history_size", "Number of predictions kept for lookup"))
	m.historyLookups = auto.NewCounterVec(m.counterOpts(
		"history_lookups_total", "Prediction lookups by id"),
		[]string{"result"})
	m.modelInfo = auto.NewGaugeVec(m.gaugeOpts(
		"model_info", "Loaded model artifact, always 1"),
		[]string{"name", "version"})
	m.vocabularySize = auto.NewGauge(m.gaugeOpts(
		"vocabulary_size", "Number of team names known to the loaded model"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordPrediction counts a successful prediction and its score.
func RecordPrediction(score int, latencyMs float64) {
	globalManager.predictions.Inc()
	globalManager.predictedScore.Observe(float64(score))
	globalManager.predictionLatency.Observe(latencyMs)
}

// RecordValidationError counts a rejected snapshot by offending field.
func RecordValidationError(field string) {
	globalManager.validationErrors.WithLabelValues(field).Inc()
}

// RecordInferenceError counts a failed model invocation.
func RecordInferenceError() {
	globalManager.inferenceErrors.Inc()
}

// RecordUnknownTeam counts a team substitution for the given field.
func RecordUnknownTeam(field string) {
	globalManager.unknownTeams.WithLabelValues(field).Inc()
}

// UpdateHistorySize sets the number of predictions kept for lookup.
func UpdateHistorySize(size int64) {
	globalManager.historySize.Set(float64(size))
}

// RecordHistoryLookup counts a lookup; found selects the result label.
func RecordHistoryLookup(found bool) {
	result := "miss"
	if found {
		result = "hit"
	}
	globalManager.historyLookups.WithLabelValues(result).Inc()
}

// SetModelInfo publishes the loaded artifact's identity and vocabulary size.
func SetModelInfo(name, version string, vocabularySize int) {
	globalManager.modelInfo.Reset()
	globalManager.modelInfo.WithLabelValues(name, version).Set(1)
	globalManager.vocabularySize.Set(float64(vocabularySize))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
