package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Feed refresh
	refreshRuns       *prometheus.CounterVec // labels: outcome={success,failure}
	refreshDuration   prometheus.Histogram
	rowsRead          prometheus.Counter
	rowsSkipped       prometheus.Counter
	locations         prometheus.Gauge
	snapshotTimestamp prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Selection
	unknownLocations *prometheus.CounterVec // labels: origin={url,picker}
}

//nolint:gochecknoglobals // singleton registry shared by the whole process
var (
	customRegistry = prometheus.NewRegistry()
	globalManager  = NewManager(WithPrometheusRegistry(customRegistry))
)

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "vaxtrack",
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

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.refreshRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_runs_total",
		Help:      "Feed normalization runs by outcome",
	}, []string{"outcome"})

	m.refreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_duration_seconds",
		Help:      "Duration of a fetch and normalize run in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.rowsRead = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feed_rows_read_total",
		Help:      "Rows parsed from the vaccination feed",
	})

	m.rowsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feed_rows_skipped_total",
		Help:      "Rows excluded because the metric was missing, non-numeric or non-positive",
	})

	m.locations = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "locations",
		Help:      "Number of locations in the current snapshot",
	})

	m.snapshotTimestamp = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_timestamp_seconds",
		Help:      "Unix time the current snapshot was fetched",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP responses with status >= 400 by endpoint and error type",
	}, []string{"endpoint", "error_type"})

	m.unknownLocations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unknown_location_selections_total",
		Help:      "Location selections ignored because the location is not in the snapshot",
	}, []string{"origin"})
}

// RecordRefresh records the outcome and duration of a normalization run.
func (m *Manager) RecordRefresh(success bool, seconds float64) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.refreshRuns.WithLabelValues(outcome).Inc()
	m.refreshDuration.Observe(seconds)
}

// RecordRows adds parsed and skipped row counts.
func (m *Manager) RecordRows(read, skipped int) {
	m.rowsRead.Add(float64(read))
	m.rowsSkipped.Add(float64(skipped))
}

// UpdateSnapshot sets the location gauge and snapshot timestamp.
func (m *Manager) UpdateSnapshot(locations int, fetchedAtUnix int64) {
	m.locations.Set(float64(locations))
	m.snapshotTimestamp.Set(float64(fetchedAtUnix))
}

// RecordHTTPRequest counts a request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError counts an error response.
func (m *Manager) RecordHTTPError(endpoint, errorType string) {
	m.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

// RecordUnknownLocation counts an ignored selection.
func (m *Manager) RecordUnknownLocation(origin string) {
	m.unknownLocations.WithLabelValues(origin).Inc()
}

// Package-level helpers delegate to the global manager.

// RecordRefresh records a run on the global manager.
func RecordRefresh(success bool, seconds float64) { globalManager.RecordRefresh(success, seconds) }

// RecordRows records row counts on the global manager.
func RecordRows(read, skipped int) { globalManager.RecordRows(read, skipped) }

// UpdateSnapshot updates snapshot gauges on the global manager.
func UpdateSnapshot(locations int, fetchedAtUnix int64) {
	globalManager.UpdateSnapshot(locations, fetchedAtUnix)
}

// RecordHTTPRequest records a request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError records an error response on the global manager.
func RecordHTTPError(endpoint, errorType string) { globalManager.RecordHTTPError(endpoint, errorType) }

// RecordUnknownLocation records an ignored selection on the global manager.
func RecordUnknownLocation(origin string) { globalManager.RecordUnknownLocation(origin) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
