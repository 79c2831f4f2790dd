// Package metrics provides Prometheus metrics for the tracking pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager holds all Prometheus collectors for the daemon.
type Manager struct {
	registry *prometheus.Registry

	framesProcessed prometheus.Counter
	handsDetected   prometheus.Counter
	shapeRejected   prometheus.Counter
	grabTransitions *prometheus.CounterVec
	detectErrors    prometheus.Counter
	detectLatency   prometheus.Histogram

	grabStrength prometheus.Gauge
	cameraRadius prometheus.Gauge
	controlling  prometheus.Gauge
	wsClients    prometheus.Gauge
}

// Custom registry to avoid the default Go runtime collectors.
var globalManager = NewManager() //nolint:gochecknoglobals // singleton metrics manager

// NewManager creates a Manager with its own registry.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	m := &Manager{registry: registry}

	m.framesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "nebula",
		Subsystem: "pipeline",
		Name:      "frames_processed_total",
		Help:      "Total number of camera frames run through detection",
	})
	m.handsDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "nebula",
		Subsystem: "pipeline",
		Name:      "hands_detected_total",
		Help:      "Total number of frames in which a hand was found",
	})
	m.shapeRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "nebula",
		Subsystem: "classifier",
		Name:      "shape_rejected_total",
		Help:      "Total number of detections rejected by the shape validity gate",
	})
	m.grabTransitions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nebula",
			Subsystem: "control",
			Name:      "grab_transitions_total",
			Help:      "Total number of grab state transitions",
		},
		[]string{"transition"},
	)
	m.detectErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "nebula",
		Subsystem: "pipeline",
		Name:      "detect_errors_total",
		Help:      "Total number of detector failures",
	})
	m.detectLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nebula",
		Subsystem: "pipeline",
		Name:      "detect_latency_milliseconds",
		Help:      "Histogram of hand detection latency in milliseconds",
		Buckets:   []float64{5, 10, 20, 35, 50, 75, 100, 150, 250, 500},
	})

	m.grabStrength = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: "nebula",
		Subsystem: "classifier",
		Name:      "grab_strength",
		Help:      "Most recent grab strength in [0, 1]",
	})
	m.cameraRadius = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: "nebula",
		Subsystem: "control",
		Name:      "camera_radius",
		Help:      "Current orbit camera radius",
	})
	m.controlling = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: "nebula",
		Subsystem: "control",
		Name:      "controlling",
		Help:      "1 while a grab is active, 0 otherwise",
	})
	m.wsClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: "nebula",
		Subsystem: "server",
		Name:      "ws_clients",
		Help:      "Number of connected state stream clients",
	})

	return m
}

// RecordFrameProcessed increments the processed frames counter.
func RecordFrameProcessed() {
	globalManager.framesProcessed.Inc()
}

// RecordHandDetected increments the hands detected counter.
func RecordHandDetected() {
	globalManager.handsDetected.Inc()
}

// RecordShapeRejected increments the shape gate rejection counter.
func RecordShapeRejected() {
	globalManager.shapeRejected.Inc()
}

// RecordGrabTransition counts a grab or release transition.
func RecordGrabTransition(transition string) {
	globalManager.grabTransitions.WithLabelValues(transition).Inc()
}

// RecordDetectError increments the detector failure counter.
func RecordDetectError() {
	globalManager.detectErrors.Inc()
}

// RecordDetectLatency records hand detection latency in milliseconds.
func RecordDetectLatency(latencyMs float64) {
	globalManager.detectLatency.Observe(latencyMs)
}

// UpdateGrabStrength sets the most recent grab strength.
func UpdateGrabStrength(strength float64) {
	globalManager.grabStrength.Set(strength)
}

// UpdateCameraRadius sets the current orbit radius.
func UpdateCameraRadius(radius float64) {
	globalManager.cameraRadius.Set(radius)
}

// UpdateControlling sets the controlling gauge.
func UpdateControlling(controlling bool) {
	v := 0.0
	if controlling {
		v = 1.0
	}
	globalManager.controlling.Set(v)
}

// UpdateWSClients sets the connected state stream client count.
func UpdateWSClients(count int) {
	globalManager.wsClients.Set(float64(count))
}

// Handler returns an http.Handler serving the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(globalManager.registry, promhttp.HandlerOpts{})
}
