// Package metrics provides Prometheus metrics for the eventboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the eventboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Event lifecycle
	eventsCreated  prometheus.Counter
	eventsUpdated  prometheus.Counter
	eventsDeleted  prometheus.Counter
	storeRecords   prometheus.Gauge
	responsibles   prometheus.Counter
	notesCreated   prometheus.Counter
	notesDeleted   prometheus.Counter
	duplicateSubms prometheus.Counter

	// Range expansion batches
	batchesStarted   prometheus.Counter
	batchesPartial   prometheus.Counter
	batchesFailed    prometheus.Counter
	batchDays        prometheus.Histogram
	validationErrors *prometheus.CounterVec
	storageErrors    *prometheus.CounterVec

	// Rendering
	renderPasses    *prometheus.CounterVec
	renderItems     *prometheus.CounterVec
	renderSequences prometheus.Gauge
	renderLatency   prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "eventboard",
		subsystem:        "events",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	m.eventsCreated = m.counter("events_created_total", "Total number of event records created")
	m.eventsUpdated = m.counter("events_updated_total", "Total number of event records edited")
	m.eventsDeleted = m.counter("events_deleted_total", "Total number of event records deleted")
	m.storeRecords = m.gauge("store_records", "Number of event records currently stored")
	m.responsibles = m.counter("responsibility_updates_total", "Total number of responsibility assignments")
	m.notesCreated = m.counter("notes_created_total", "Total number of notes created")
	m.notesDeleted = m.counter("notes_deleted_total", "Total number of notes deleted")
	m.duplicateSubms = m.counter("duplicate_submissions_total", "Submissions rejected by idempotency key")

	m.batchesStarted = m.counter("batches_started_total", "Range expansion batches started")
	m.batchesPartial = m.counter("batches_partial_total", "Batches that stopped after persisting some days")
	m.batchesFailed = m.counter("batches_failed_total", "Batches that persisted nothing")
	m.batchDays = m.histogram("batch_days", "Number of days requested per batch", []float64{1, 2, 3, 5, 7, 14, 31, 62})
	m.validationErrors = m.counterVec("validation_errors_total", "Rejected submissions by offending field", "field")
	m.storageErrors = m.counterVec("storage_errors_total", "Storage collaborator failures by operation", "op")

	m.renderPasses = m.counterVec("render_passes_total", "Calendar render passes by display mode", "mode")
	m.renderItems = m.counterVec("render_items_total", "Render items produced by display mode", "mode")
	m.renderSequences = m.gauge("render_sequences", "Event sequences built in the last render pass")
	m.renderLatency = m.histogram("render_latency_milliseconds", "Grouping and formatting latency in milliseconds", m.histogramBuckets)

	auto := promauto.With(m.registry)
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      m.name("http_requests_total"),
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      m.name("http_request_duration_milliseconds"),
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Allocated heap memory in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds", m.histogramBuckets)
}

// Event lifecycle.

// RecordEventCreated increments the created-records counter.
func RecordEventCreated() {
	globalManager.eventsCreated.Inc()
}

// RecordEventUpdated increments the edited-records counter.
func RecordEventUpdated() {
	globalManager.eventsUpdated.Inc()
}

// RecordEventDeleted increments the deleted-records counter.
func RecordEventDeleted() {
	globalManager.eventsDeleted.Inc()
}

// UpdateStoreRecords sets the number of stored event records.
func UpdateStoreRecords(count int) {
	globalManager.storeRecords.Set(float64(count))
}

// RecordResponsibilityUpdate increments the responsibility assignment counter.
func RecordResponsibilityUpdate() {
	globalManager.responsibles.Inc()
}

// RecordNoteCreated increments the note counter.
func RecordNoteCreated() {
	globalManager.notesCreated.Inc()
}

// RecordNoteDeleted increments the deleted-note counter.
func RecordNoteDeleted() {
	globalManager.notesDeleted.Inc()
}

// RecordDuplicateSubmission counts a submission dropped by its idempotency key.
func RecordDuplicateSubmission() {
	globalManager.duplicateSubms.Inc()
}

// Batches.

// RecordBatchStarted counts a batch and observes how many days it covers.
func RecordBatchStarted(days int) {
	globalManager.batchesStarted.Inc()
	globalManager.batchDays.Observe(float64(days))
}

// RecordBatchPartial counts a batch that stopped after persisting some days.
func RecordBatchPartial() {
	globalManager.batchesPartial.Inc()
}

// RecordBatchFailed counts a batch that persisted nothing.
func RecordBatchFailed() {
	globalManager.batchesFailed.Inc()
}

// RecordValidationError counts a rejected submission.
func RecordValidationError(field string) {
	globalManager.validationErrors.WithLabelValues(field).Inc()
}

// RecordStorageError counts a storage collaborator failure.
func RecordStorageError(op string) {
	globalManager.storageErrors.WithLabelValues(op).Inc()
}

// Rendering.

// RecordRenderPass records one grouping+formatting pass.
func RecordRenderPass(mode string, sequences, items int, latencyMs float64) {
	globalManager.renderPasses.WithLabelValues(mode).Inc()
	globalManager.renderItems.WithLabelValues(mode).Add(float64(items))
	globalManager.renderSequences.Set(float64(sequences))
	globalManager.renderLatency.Observe(latencyMs)
}

// HTTP.

// RecordHTTPRequest increments the HTTP request counter.
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

// System.

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
