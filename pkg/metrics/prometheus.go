// Package metrics provides Prometheus metrics for the starline replay service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Playback metrics
	ticksAdvanced         prometheus.Counter
	playbackRunsStarted   prometheus.Counter
	playbackRunsCompleted prometheus.Counter
	playbackResets        prometheus.Counter
	playheadIndex         prometheus.Gauge

	// Annotation metrics
	eventsFired     prometheus.Counter
	eventsDismissed prometheus.Counter
	staleTimerFires prometheus.Counter

	// Dataset metrics
	datasetEntities prometheus.Gauge
	timelineTicks   prometheus.Gauge
	visibleEntities prometheus.Gauge
	totalVisible    prometheus.Gauge
	seriesBuildMs   prometheus.Histogram

	// HTTP metrics
	framesServed        prometheus.Counter
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager on a custom registry, so the default Go collectors
// do not pollute the scrape output.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with the given options applied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "starline",
		subsystem:        "replay",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.ticksAdvanced = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ticks_advanced_total",
		Help:      "Number of timeline ticks the playback clock has advanced.",
	})
	m.playbackRunsStarted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "playback_runs_started_total",
		Help:      "Number of playback runs started.",
	})
	m.playbackRunsCompleted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "playback_runs_completed_total",
		Help:      "Number of playback runs that reached the final tick.",
	})
	m.playbackResets = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "playback_resets_total",
		Help:      "Number of reset operations.",
	})
	m.playheadIndex = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "playhead_index",
		Help:      "Current playhead tick index (-1 before start).",
	})

	m.eventsFired = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "annotations_fired_total",
		Help:      "Number of annotations fired across all runs.",
	})
	m.eventsDismissed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "annotations_dismissed_total",
		Help:      "Number of annotations dismissed (timer or resume).",
	})
	m.staleTimerFires = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stale_timer_fires_total",
		Help:      "Number of late timer callbacks ignored by generation check.",
	})

	m.datasetEntities = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_entities",
		Help:      "Number of entities loaded into the replay dataset.",
	})
	m.timelineTicks = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "timeline_ticks",
		Help:      "Length of the derived uniform timeline.",
	})
	m.visibleEntities = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "visible_entities",
		Help:      "Number of entities visible at the current playhead.",
	})
	m.totalVisible = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_visible_value",
		Help:      "Sum of current values across visible entities.",
	})
	m.seriesBuildMs = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "series_build_duration_ms",
		Help:      "Time spent interpolating dense series at load.",
		Buckets:   m.histogramBuckets,
	})

	m.framesServed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_served_total",
		Help:      "Number of render frames served over HTTP.",
	})
	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration by endpoint, method and status.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Allocated heap bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Number of live goroutines.",
	})
}

// Package-level helpers against the global manager.

// RecordTickAdvanced increments the tick counter and sets the playhead gauge.
func RecordTickAdvanced(index int) {
	globalManager.ticksAdvanced.Inc()
	globalManager.playheadIndex.Set(float64(index))
}

// RecordPlaybackStarted counts a new playback run.
func RecordPlaybackStarted() {
	globalManager.playbackRunsStarted.Inc()
}

// RecordPlaybackCompleted counts a run that reached the final tick.
func RecordPlaybackCompleted() {
	globalManager.playbackRunsCompleted.Inc()
}

// RecordPlaybackReset counts a reset and clears the playhead gauge.
func RecordPlaybackReset() {
	globalManager.playbackResets.Inc()
	globalManager.playheadIndex.Set(-1)
}

// RecordAnnotationFired counts a fired annotation.
func RecordAnnotationFired() {
	globalManager.eventsFired.Inc()
}

// RecordAnnotationDismissed counts a dismissed annotation.
func RecordAnnotationDismissed() {
	globalManager.eventsDismissed.Inc()
}

// RecordStaleTimerFire counts a late timer callback ignored by generation check.
func RecordStaleTimerFire() {
	globalManager.staleTimerFires.Inc()
}

// UpdateDatasetSize records dataset dimensions after load.
func UpdateDatasetSize(entities, ticks int) {
	globalManager.datasetEntities.Set(float64(entities))
	globalManager.timelineTicks.Set(float64(ticks))
}

// UpdateVisibleEntities sets the visible entity gauge.
func UpdateVisibleEntities(count int) {
	globalManager.visibleEntities.Set(float64(count))
}

// UpdateTotalVisible sets the running total gauge.
func UpdateTotalVisible(total float64) {
	globalManager.totalVisible.Set(total)
}

// RecordSeriesBuildDuration observes an interpolation build duration.
func RecordSeriesBuildDuration(ms float64) {
	globalManager.seriesBuildMs.Observe(ms)
}

// RecordFrameServed counts a frame response.
func RecordFrameServed() {
	globalManager.framesServed.Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration in ms.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// UpdateSystemMemoryUsage sets the heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom registry for the /metrics handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
