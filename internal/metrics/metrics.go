package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics on a private registry.
type Metrics struct {
	Ticks          prometheus.Counter
	Detections     prometheus.Counter
	Violations     prometheus.Counter
	Evicted        prometheus.Counter
	TickErrors     prometheus.Counter
	CameraFailures prometheus.Counter
	FramesCaptured prometheus.Counter

	FPS        prometheus.Gauge
	CameraOn   prometheus.Gauge
	Detecting  prometheus.Gauge
	SpeedLimit prometheus.Gauge
	Viewers    prometheus.Gauge

	DetectedSpeed prometheus.Histogram

	registry *prometheus.Registry
}

// New creates a Metrics instance with its collectors registered.
func New() *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "overspeed_ticks_total",
			Help: "Detection loop ticks executed",
		}),
		Detections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "overspeed_detections_total",
			Help: "Vehicle observations produced",
		}),
		Violations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "overspeed_violations_total",
			Help: "Observations above the speed limit",
		}),
		Evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "overspeed_violations_evicted_total",
			Help: "Violations dropped from the recent list to make room",
		}),
		TickErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "overspeed_tick_errors_total",
			Help: "Ticks aborted by an error",
		}),
		CameraFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "overspeed_camera_failures_total",
			Help: "Failed attempts to acquire the capture device",
		}),
		FramesCaptured: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "overspeed_frames_captured_total",
			Help: "Frames read from the capture device",
		}),
		FPS: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "overspeed_fps",
			Help: "Instantaneous detection loop rate",
		}),
		CameraOn: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "overspeed_camera_on",
			Help: "Camera active (0=off, 1=on)",
		}),
		Detecting: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "overspeed_detecting",
			Help: "Detection active (0=idle, 1=detecting)",
		}),
		SpeedLimit: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "overspeed_speed_limit",
			Help: "Current speed limit in km/h",
		}),
		Viewers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "overspeed_viewers",
			Help: "Connected websocket viewers",
		}),
		DetectedSpeed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "overspeed_detected_speed_kmh",
			Help:    "Distribution of observed vehicle speeds",
			Buckets: prometheus.LinearBuckets(20, 10, 9),
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.Ticks, m.Detections, m.Violations, m.Evicted, m.TickErrors, m.CameraFailures, m.FramesCaptured,
		m.FPS, m.CameraOn, m.Detecting, m.SpeedLimit, m.Viewers,
		m.DetectedSpeed,
	)
	return m
}

// SetBool stores a boolean as 0 or 1 on gauge g.
func SetBool(g prometheus.Gauge, v bool) {
	if v {
		g.Set(1)
		return
	}
	g.Set(0)
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
