// Package metrics provides Prometheus metrics for the halfspace analytics pipeline.
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

// Manager manages all Prometheus metrics for the halfspace service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Dataset Metrics - Event store scale and health
	eventsLoaded     prometheus.Gauge
	playersTracked   prometheus.Gauge
	matchesLoaded    prometheus.Gauge
	storeLoadErrors  prometheus.Counter
	enrichedFeatures *prometheus.CounterVec
	enrichmentSkips  *prometheus.CounterVec

	// Aggregation Metrics - Engine performance and quality
	aggregationDuration *prometheus.HistogramVec
	aggregationRows     *prometheus.HistogramVec
	contextsSkipped     prometheus.Counter
	metricErrors        prometheus.Counter
	configLookupErrors  prometheus.Counter

	// Profile Metrics - Player summarization models
	profilesComputed *prometheus.CounterVec
	profileErrors    *prometheus.CounterVec

	// Cache Metrics - Population table memoization
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheSize   prometheus.Gauge

	// Pool Metrics - Parallel aggregation tasks
	poolWorkers      prometheus.Gauge
	poolTaskDuration prometheus.Histogram
	poolTaskTimeouts prometheus.Counter
	poolTaskErrors   prometheus.Counter

	// Rating Index Metrics
	ratingUpdates prometheus.Counter
	ratedPlayers  prometheus.Gauge

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "halfspace",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Dataset Metrics
	m.eventsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_loaded",
		Help:      "Number of events currently held by the event store",
	})

	m.playersTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_tracked",
		Help:      "Number of distinct players present in the loaded dataset",
	})

	m.matchesLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_loaded",
		Help:      "Number of matches loaded into the event store",
	})

	m.storeLoadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_load_errors_total",
		Help:      "Total number of dataset files that failed to load",
	})

	m.enrichedFeatures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "enriched_features_total",
			Help:      "Total number of derived feature values written, by feature",
		},
		[]string{"feature"},
	)

	m.enrichmentSkips = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "enrichment_skips_total",
			Help:      "Total number of enrichment passes skipped due to missing inputs, by feature",
		},
		[]string{"feature"},
	)

	// Aggregation Metrics
	m.aggregationDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "aggregation_duration_seconds",
			Help:      "Aggregation execution time by configuration name",
			Buckets:   m.histogramBuckets,
		},
		[]string{"config"},
	)

	m.aggregationRows = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "aggregation_rows",
			Help:      "Number of wide rows produced per aggregation, by configuration name",
			Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000},
		},
		[]string{"config"},
	)

	m.contextsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contexts_skipped_total",
		Help:      "Total number of contexts skipped because their condition matched no rows",
	})

	m.metricErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "metric_errors_total",
		Help:      "Total number of metric computations referencing an absent column",
	})

	m.configLookupErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "config_lookup_errors_total",
		Help:      "Total number of aggregation requests naming an unknown configuration",
	})

	// Profile Metrics
	m.profilesComputed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "profiles_computed_total",
			Help:      "Total number of player profiles computed, by kind (attribute|style)",
		},
		[]string{"kind"},
	)

	m.profileErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "profile_errors_total",
			Help:      "Total number of player profile computations that fell back to a placeholder, by kind",
		},
		[]string{"kind"},
	)

	// Cache Metrics
	m.cacheHits = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_hits_total",
			Help:      "Total number of population cache hits, by cache name",
		},
		[]string{"cache"},
	)

	m.cacheMisses = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_misses_total",
			Help:      "Total number of population cache misses, by cache name",
		},
		[]string{"cache"},
	)

	m.cacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_size",
		Help:      "Current number of cached population tables",
	})

	// Pool Metrics
	m.poolWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_workers",
		Help:      "Current number of aggregation pool workers",
	})

	m.poolTaskDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_task_duration_seconds",
		Help:      "Aggregation pool task duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.poolTaskTimeouts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_task_timeouts_total",
		Help:      "Total number of aggregation tasks that exceeded their deadline",
	})

	m.poolTaskErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_task_errors_total",
		Help:      "Total number of aggregation tasks that failed",
	})

	// Rating Index Metrics
	m.ratingUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_updates_total",
		Help:      "Total number of player rating index updates",
	})

	m.ratedPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rated_players",
		Help:      "Number of players currently tracked by the rating index",
	})

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// Package-level helpers operating on the global manager.

// UpdateEventsLoaded sets the number of events held by the store.
func UpdateEventsLoaded(count int) {
	globalManager.eventsLoaded.Set(float64(count))
}

// UpdatePlayersTracked sets the number of distinct players in the dataset.
func UpdatePlayersTracked(count int) {
	globalManager.playersTracked.Set(float64(count))
}

// UpdateMatchesLoaded sets the number of loaded matches.
func UpdateMatchesLoaded(count int) {
	globalManager.matchesLoaded.Set(float64(count))
}

// RecordStoreLoadError counts a dataset file that failed to load.
func RecordStoreLoadError() {
	globalManager.storeLoadErrors.Inc()
}

// RecordEnrichedFeature counts derived feature values written for a feature.
func RecordEnrichedFeature(feature string, count int) {
	globalManager.enrichedFeatures.WithLabelValues(feature).Add(float64(count))
}

// RecordEnrichmentSkip counts an enrichment pass skipped for missing inputs.
func RecordEnrichmentSkip(feature string) {
	globalManager.enrichmentSkips.WithLabelValues(feature).Inc()
}

// RecordAggregationDuration observes an aggregation execution time.
func RecordAggregationDuration(config string, seconds float64) {
	globalManager.aggregationDuration.WithLabelValues(config).Observe(seconds)
}

// RecordAggregationRows observes the width-table row count of an aggregation.
func RecordAggregationRows(config string, rows int) {
	globalManager.aggregationRows.WithLabelValues(config).Observe(float64(rows))
}

// RecordContextSkipped counts an empty context.
func RecordContextSkipped() {
	globalManager.contextsSkipped.Inc()
}

// RecordMetricError counts a metric computation that referenced an
// absent column and fell back to zeros.
func RecordMetricError() {
	globalManager.metricErrors.Inc()
}

// RecordConfigLookupError counts a request for an unknown configuration.
func RecordConfigLookupError() {
	globalManager.configLookupErrors.Inc()
}

// RecordProfileComputed counts a computed player profile.
func RecordProfileComputed(kind string) {
	globalManager.profilesComputed.WithLabelValues(kind).Inc()
}

// RecordProfileError counts a profile computation that fell back to a placeholder.
func RecordProfileError(kind string) {
	globalManager.profileErrors.WithLabelValues(kind).Inc()
}

// RecordCacheHit counts a population cache hit.
func RecordCacheHit(cache string) {
	globalManager.cacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss counts a population cache miss.
func RecordCacheMiss(cache string) {
	globalManager.cacheMisses.WithLabelValues(cache).Inc()
}

// UpdateCacheSize sets the number of cached population tables.
func UpdateCacheSize(size int) {
	globalManager.cacheSize.Set(float64(size))
}

// UpdatePoolWorkers sets the number of aggregation pool workers.
func UpdatePoolWorkers(count int) {
	globalManager.poolWorkers.Set(float64(count))
}

// RecordPoolTaskDuration observes an aggregation pool task duration.
func RecordPoolTaskDuration(seconds float64) {
	globalManager.poolTaskDuration.Observe(seconds)
}

// RecordPoolTaskTimeout counts a task that exceeded its deadline.
func RecordPoolTaskTimeout() {
	globalManager.poolTaskTimeouts.Inc()
}

// RecordPoolTaskError counts a failed task.
func RecordPoolTaskError() {
	globalManager.poolTaskErrors.Inc()
}

// RecordRatingUpdate counts a player rating index update.
func RecordRatingUpdate() {
	globalManager.ratingUpdates.Inc()
}

// UpdateRatedPlayers sets the number of players in the rating index.
func UpdateRatedPlayers(count int) {
	globalManager.ratedPlayers.Set(float64(count))
}

// UpdateSystemMemoryUsage sets the current allocated memory.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
