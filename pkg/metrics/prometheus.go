// Package metrics provides Prometheus metrics for the crossjudge ranking service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Ranking
	rankRequests      *prometheus.CounterVec
	rankLatency       prometheus.Histogram
	rankResults       prometheus.Histogram
	candidatesFetched *prometheus.CounterVec
	candidatesDropped *prometheus.CounterVec

	// Providers
	providerFailures *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec

	// Feedback
	feedbackSaves   *prometheus.CounterVec
	feedbackEntries *prometheus.GaugeVec

	// Caches
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheEvictions *prometheus.CounterVec
	cacheEntries   *prometheus.GaugeVec

	// Circuit breakers
	breakerState       *prometheus.GaugeVec
	breakerTransitions *prometheus.CounterVec

	// Catalog
	catalogEntries prometheus.Gauge
	catalogReloads *prometheus.CounterVec

	// Warmup queue and workers
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueued           prometheus.Counter
	queueDequeued           prometheus.Counter
	queueEnqueueErrors      prometheus.Counter
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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

// NewManager creates a metrics manager registered on the configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crossjudge",
		subsystem:        "ranking",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels, Buckets: buckets,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	latencyBuckets := []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

	m.rankRequests = m.counterVec("rank_requests_total", "Rank requests by outcome", "outcome")
	m.rankLatency = m.histogram("rank_latency_milliseconds", "End-to-end rank latency in milliseconds", latencyBuckets)
	m.rankResults = m.histogram("rank_results", "Number of results returned per rank request", []float64{0, 1, 2, 3, 5, 8, 10})
	m.candidatesFetched = m.counterVec("candidates_fetched_total", "Candidates contributed by each provider", "provider")
	m.candidatesDropped = m.counterVec("candidates_dropped_total", "Candidates removed from ranking by reason", "reason")

	m.providerFailures = m.counterVec("provider_failures_total", "Provider fetch failures by provider and reason", "provider", "reason")
	m.providerLatency = m.histogramVec("provider_latency_milliseconds", "Provider fetch latency in milliseconds", latencyBuckets, "provider")

	m.feedbackSaves = m.counterVec("feedback_saves_total", "Feedback judgments saved by status", "status")
	m.feedbackEntries = m.gaugeVec("feedback_entries", "Stored feedback judgments by status", "status")

	m.cacheHits = m.counterVec("cache_hits_total", "Cache hits by cache name", "cache")
	m.cacheMisses = m.counterVec("cache_misses_total", "Cache misses by cache name", "cache")
	m.cacheEvictions = m.counterVec("cache_evictions_total", "Cache evictions by cache name", "cache")
	m.cacheEntries = m.gaugeVec("cache_entries", "Current cache entries by cache name", "cache")

	m.breakerState = m.gaugeVec("circuit_breaker_state", "Circuit breaker state (0 closed, 1 half-open, 2 open)", "name")
	m.breakerTransitions = m.counterVec("circuit_breaker_transitions_total", "Circuit breaker state transitions", "name", "from", "to")

	m.catalogEntries = m.gauge("catalog_entries", "Problems in the curated catalog")
	m.catalogReloads = m.counterVec("catalog_reloads_total", "Catalog reload attempts by outcome", "outcome")

	m.queueSize = m.gauge("warmup_queue_size", "Current size of the embedding warmup queue")
	m.queueCapacity = m.gauge("warmup_queue_capacity", "Capacity of the embedding warmup queue")
	m.queueEnqueued = m.counter("warmup_queue_enqueued_total", "Warmup jobs enqueued")
	m.queueDequeued = m.counter("warmup_queue_dequeued_total", "Warmup jobs dequeued")
	m.queueEnqueueErrors = m.counter("warmup_queue_enqueue_errors_total", "Warmup jobs rejected by the queue")
	m.workerCount = m.gauge("warmup_worker_count", "Warmup workers running")
	m.workerProcessingLatency = m.histogram("warmup_worker_latency_milliseconds", "Warmup job processing latency in milliseconds", latencyBuckets)
	m.workerErrors = m.counter("warmup_worker_errors_total", "Warmup jobs that failed")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets, "endpoint", "method", "status_code")
	m.errorRateByEndpoint = m.counterVec("http_errors_total", "HTTP errors by endpoint, method and error type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Ranking.

// RecordRankRequest counts a rank request with its outcome (ok, invalid).
func RecordRankRequest(outcome string) {
	globalManager.rankRequests.WithLabelValues(outcome).Inc()
}

// RecordRankLatency records end-to-end rank latency in milliseconds.
func RecordRankLatency(latencyMs float64) {
	globalManager.rankLatency.Observe(latencyMs)
}

// RecordRankResults records how many results a rank request returned.
func RecordRankResults(n int) {
	globalManager.rankResults.Observe(float64(n))
}

// RecordCandidatesFetched adds n candidates contributed by provider.
func RecordCandidatesFetched(provider string, n int) {
	globalManager.candidatesFetched.WithLabelValues(provider).Add(float64(n))
}

// RecordCandidateDropped counts a candidate removed for reason.
func RecordCandidateDropped(reason string) {
	globalManager.candidatesDropped.WithLabelValues(reason).Inc()
}

// Providers.

// RecordProviderFailure counts a failed provider fetch.
func RecordProviderFailure(provider, reason string) {
	globalManager.providerFailures.WithLabelValues(provider, reason).Inc()
}

// RecordProviderLatency records a provider fetch latency in milliseconds.
func RecordProviderLatency(provider string, latencyMs float64) {
	globalManager.providerLatency.WithLabelValues(provider).Observe(latencyMs)
}

// Feedback.

// RecordFeedbackSave counts a saved judgment.
func RecordFeedbackSave(status string) {
	globalManager.feedbackSaves.WithLabelValues(status).Inc()
}

// UpdateFeedbackEntries sets the stored judgment counts.
func UpdateFeedbackEntries(confirmed, rejected int) {
	globalManager.feedbackEntries.WithLabelValues("confirmed").Set(float64(confirmed))
	globalManager.feedbackEntries.WithLabelValues("rejected").Set(float64(rejected))
}

// Caches.

// RecordCacheHit counts a cache hit.
func RecordCacheHit(cache string) {
	globalManager.cacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss counts a cache miss.
func RecordCacheMiss(cache string) {
	globalManager.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordCacheEvictions adds n evictions.
func RecordCacheEvictions(cache string, n int) {
	globalManager.cacheEvictions.WithLabelValues(cache).Add(float64(n))
}

// UpdateCacheEntries sets the current entry count of a cache.
func UpdateCacheEntries(cache string, n int) {
	globalManager.cacheEntries.WithLabelValues(cache).Set(float64(n))
}

// Circuit breakers.

// UpdateBreakerState sets the numeric state of a breaker.
func UpdateBreakerState(name string, state float64) {
	globalManager.breakerState.WithLabelValues(name).Set(state)
}

// RecordBreakerTransition counts a breaker state transition.
func RecordBreakerTransition(name, from, to string) {
	globalManager.breakerTransitions.WithLabelValues(name, from, to).Inc()
}

// Catalog.

// UpdateCatalogEntries sets the catalog size.
func UpdateCatalogEntries(n int) {
	globalManager.catalogEntries.Set(float64(n))
}

// RecordCatalogReload counts a catalog reload with outcome (ok, error).
func RecordCatalogReload(outcome string) {
	globalManager.catalogReloads.WithLabelValues(outcome).Inc()
}

// Warmup queue and workers.

// UpdateQueueSize sets the current warmup queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the warmup queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of warmup workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records warmup job latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the warmup worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an HTTP error.
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
