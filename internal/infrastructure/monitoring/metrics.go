package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the terminal backend.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session lifecycle
	SessionsActive  prometheus.Gauge
	SessionsSpawned prometheus.Counter
	SessionsClosed  prometheus.Counter

	// PTY traffic
	BytesWritten prometheus.Counter
	OutputBytes  prometheus.Counter
	ExitEvents   prometheus.Counter

	// WebSocket event channel
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates and registers the metrics collector. Uses the
// default registry; construct once per process.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termdeck_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termdeck_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termdeck_sessions_active",
				Help: "Number of live terminal sessions",
			},
		),
		SessionsSpawned: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termdeck_sessions_spawned_total",
				Help: "Total number of sessions spawned",
			},
		),
		SessionsClosed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termdeck_sessions_closed_total",
				Help: "Total number of sessions closed",
			},
		),

		BytesWritten: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termdeck_pty_bytes_written_total",
				Help: "Bytes written to session PTYs",
			},
		),
		OutputBytes: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termdeck_pty_output_bytes_total",
				Help: "PTY output bytes emitted to the event channel",
			},
		),
		ExitEvents: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termdeck_session_exit_events_total",
				Help: "Terminal exit events emitted",
			},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termdeck_ws_connections",
				Help: "Number of connected UI clients",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termdeck_ws_messages_total",
				Help: "WebSocket messages by direction and type",
			},
			[]string{"direction", "type"},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termdeck_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records one HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
