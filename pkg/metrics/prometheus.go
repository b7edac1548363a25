// Package metrics provides Prometheus metrics for the nightseek forecast
// service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the nightseek service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Business Metrics - What really matters for a forecast run
	forecastRuns     prometheus.Counter
	forecastDuration prometheus.Histogram
	nightsProcessed  prometheus.Counter
	objectsScored    prometheus.Counter
	objectsDisplayed prometheus.Counter
	scoringLatency   prometheus.Histogram

	// Data Source Metrics - External fetch health
	sourceFailures     *prometheus.CounterVec
	sourceFetchLatency *prometheus.HistogramVec
	breakerOpen        *prometheus.GaugeVec

	// Cache Metrics
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	cacheWriteErrors prometheus.Counter

	// Selection Metrics
	bestNightsSelected prometheus.Gauge
	picksSelected      *prometheus.CounterVec

	// Business Quality Metrics
	scoringErrors    prometheus.Counter
	visibilityErrors prometheus.Counter

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "nightseek",
		subsystem:        "forecast",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics
	m.forecastRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total number of forecast runs completed",
	})

	m.forecastDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "End-to-end forecast run duration in milliseconds",
		Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
	})

	m.nightsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "nights_processed_total",
		Help:      "Total number of nights fully aggregated and scored",
	})

	m.objectsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "objects_scored_total",
		Help:      "Total number of (object, night) pairs scored",
	})

	m.objectsDisplayed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "objects_displayed_total",
		Help:      "Total number of scored objects kept above the display threshold",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of per-night scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Data Source Metrics
	m.sourceFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "source_failures_total",
			Help:      "Total number of absorbed external data source failures by source",
		},
		[]string{"source"},
	)

	m.sourceFetchLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "source_fetch_latency_milliseconds",
			Help:      "External data source fetch latency in milliseconds by source",
			Buckets:   m.histogramBuckets,
		},
		[]string{"source"},
	)

	m.breakerOpen = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "breaker_open",
			Help:      "Whether the circuit breaker for a client is open (1) or closed (0)",
		},
		[]string{"client"},
	)

	// Cache Metrics
	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of fresh cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of cache misses or expired entries",
	})

	m.cacheWriteErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_write_errors_total",
		Help:      "Total number of silently absorbed cache write failures",
	})

	// Selection Metrics
	m.bestNightsSelected = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "best_nights_selected",
		Help:      "Number of best-night badges handed out by the last run",
	})

	m.picksSelected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "picks_selected_total",
			Help:      "Total number of tonight's picks by category",
		},
		[]string{"category"},
	)

	// Business Quality Metrics
	m.scoringErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_errors_total",
		Help:      "Total number of scoring errors",
	})

	m.visibilityErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "visibility_errors_total",
		Help:      "Total number of absorbed per-object visibility failures",
	})

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordForecastRun increments the completed runs counter.
func RecordForecastRun() {
	globalManager.forecastRuns.Inc()
}

// RecordForecastDuration records the end-to-end run duration in milliseconds.
func RecordForecastDuration(durationMs float64) {
	globalManager.forecastDuration.Observe(durationMs)
}

// RecordNightProcessed increments the processed nights counter.
func RecordNightProcessed() {
	globalManager.nightsProcessed.Inc()
}

// RecordObjectsScored adds to the scored objects counter.
func RecordObjectsScored(count int) {
	globalManager.objectsScored.Add(float64(count))
}

// RecordObjectsDisplayed adds to the above-threshold objects counter.
func RecordObjectsDisplayed(count int) {
	globalManager.objectsDisplayed.Add(float64(count))
}

// RecordScoringLatency records per-night scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordSourceFailure increments the failure counter for a data source.
func RecordSourceFailure(source string) {
	globalManager.sourceFailures.WithLabelValues(source).Inc()
}

// RecordSourceFetchLatency records a data source fetch latency.
func RecordSourceFetchLatency(source string, latencyMs float64) {
	globalManager.sourceFetchLatency.WithLabelValues(source).Observe(latencyMs)
}

// UpdateBreakerOpen sets the open/closed state gauge for a client breaker.
func UpdateBreakerOpen(client string, open bool) {
	v := 0.0
	if open {
		v = 1.0
	}
	globalManager.breakerOpen.WithLabelValues(client).Set(v)
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordCacheWriteError increments the absorbed cache write failure counter.
func RecordCacheWriteError() {
	globalManager.cacheWriteErrors.Inc()
}

// UpdateBestNightsSelected sets the badge count of the last run.
func UpdateBestNightsSelected(count int) {
	globalManager.bestNightsSelected.Set(float64(count))
}

// RecordPickSelected increments the picks counter for a category.
func RecordPickSelected(category string) {
	globalManager.picksSelected.WithLabelValues(category).Inc()
}

// RecordScoringError increments the scoring errors counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// RecordVisibilityError increments the absorbed visibility failure counter.
func RecordVisibilityError() {
	globalManager.visibilityErrors.Inc()
}

// System Performance Metrics Functions.

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
