// Package metrics provides Prometheus metrics for the leadboard service.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// Manager owns every collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Queries
	queryCount   *prometheus.CounterVec
	queryLatency *prometheus.HistogramVec
	leadsTotal   prometheus.Gauge
	leadsOverdue prometheus.Gauge

	// Actions
	actionsAccepted  *prometheus.CounterVec
	actionsDuplicate prometheus.Counter
	actionsApplied   *prometheus.CounterVec
	actionsFailed    *prometheus.CounterVec

	// Repository
	repositoryQueryLatency  prometheus.Histogram
	repositoryUpdateLatency prometheus.Histogram

	// Queue
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueued    prometheus.Counter
	queueRejected    prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram

	// Notifications
	notificationsSent *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "leadboard",
		subsystem:        "api",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		refreshInterval:  defaultRefreshInterval,
		customLabels:     map[string]string{},
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
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.queryCount = auto.NewCounterVec(
		m.counterOpts("queries_total", "Lead query engine invocations by operation"),
		[]string{"operation"},
	)
	m.queryLatency = auto.NewHistogramVec(
		m.histogramOpts("query_latency_milliseconds", "Lead query engine latency in milliseconds"),
		[]string{"operation"},
	)
	m.leadsTotal = auto.NewGauge(m.gaugeOpts("leads_total", "Number of leads in the store"))
	m.leadsOverdue = auto.NewGauge(m.gaugeOpts("leads_overdue", "Number of overdue leads at the last overdue query"))

	m.actionsAccepted = auto.NewCounterVec(
		m.counterOpts("actions_accepted_total", "Actions accepted for processing by kind"),
		[]string{"kind"},
	)
	m.actionsDuplicate = auto.NewCounter(m.counterOpts("actions_duplicate_total", "Resubmitted actions ignored by id"))
	m.actionsApplied = auto.NewCounterVec(
		m.counterOpts("actions_applied_total", "Actions handled by workers by kind"),
		[]string{"kind"},
	)
	m.actionsFailed = auto.NewCounterVec(
		m.counterOpts("actions_failed_total", "Actions whose handling failed by kind"),
		[]string{"kind"},
	)

	m.repositoryQueryLatency = auto.NewHistogram(
		m.histogramOpts("repository_query_latency_milliseconds", "Repository read latency in milliseconds"))
	m.repositoryUpdateLatency = auto.NewHistogram(
		m.histogramOpts("repository_update_latency_milliseconds", "Repository write latency in milliseconds"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Actions waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Action queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Action queue fill ratio"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueued_total", "Actions enqueued"))
	m.queueRejected = auto.NewCounter(m.counterOpts("queue_rejected_total", "Actions rejected because the queue was full"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured action workers"))
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Workers currently handling an action"))
	m.workerProcessingLatency = auto.NewHistogram(
		m.histogramOpts("worker_processing_latency_milliseconds", "Action handling latency in milliseconds"))

	m.notificationsSent = auto.NewCounterVec(
		m.counterOpts("notifications_total", "Outbound notifications by channel and result"),
		[]string{"channel", "result"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status code"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Error responses by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap memory in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
}

// RecordQuery counts one query operation and its latency.
func RecordQuery(operation string, latencyMs float64) {
	globalManager.queryCount.WithLabelValues(operation).Inc()
	globalManager.queryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// UpdateLeadsTotal sets the number of stored leads.
func UpdateLeadsTotal(count int) {
	globalManager.leadsTotal.Set(float64(count))
}

// UpdateLeadsOverdue sets the overdue gauge.
func UpdateLeadsOverdue(count int) {
	globalManager.leadsOverdue.Set(float64(count))
}

// RecordActionAccepted counts an accepted action.
func RecordActionAccepted(kind string) {
	globalManager.actionsAccepted.WithLabelValues(kind).Inc()
}

// RecordActionDuplicate counts a resubmitted action.
func RecordActionDuplicate() {
	globalManager.actionsDuplicate.Inc()
}

// RecordActionApplied counts an action handled by a worker.
func RecordActionApplied(kind string) {
	globalManager.actionsApplied.WithLabelValues(kind).Inc()
}

// RecordActionFailed counts an action whose handling failed.
func RecordActionFailed(kind string) {
	globalManager.actionsFailed.WithLabelValues(kind).Inc()
}

// RecordRepositoryQueryLatency records a repository read.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// RecordRepositoryUpdateLatency records a repository write.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the fill ratio in [0,1].
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue counts a successful enqueue.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueRejected counts an enqueue refused by backpressure.
func RecordQueueRejected() {
	globalManager.queueRejected.Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records one action handling.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordNotification counts an outbound message; result is "sent" or "failed".
func RecordNotification(channel, result string) {
	globalManager.notificationsSent.WithLabelValues(channel, result).Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint counts an error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap bytes in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// SampleSystem refreshes the memory and goroutine gauges once.
func SampleSystem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	UpdateSystemMemoryUsage(ms.HeapAlloc)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

// StartSystemSampler refreshes the system gauges every refresh interval
// until ctx is done.
func StartSystemSampler(ctx context.Context) {
	interval := globalManager.refreshInterval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		SampleSystem()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				SampleSystem()
			}
		}
	}()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
