package perf

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CountSource exposes the running behavioral event totals and the
// latest distance estimate.
type CountSource interface {
	BlinkCount() int
	FrownCount() int
	DistanceCm() float64
}

// Exporter publishes the monitor's telemetry and the behavioral event
// totals as Prometheus metrics on its own registry.
type Exporter struct {
	registry *prometheus.Registry
}

// NewExporter creates an Exporter that pulls from the given monitor and
// count source on every scrape.
func NewExporter(m *Monitor, counts CountSource) *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
	}

	e.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "drishti_fps",
			Help: "Smoothed frames per second",
		},
		func() float64 { return m.Current().FPS },
	))

	e.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "drishti_cpu_percent",
			Help: "Smoothed system CPU utilization percentage",
		},
		func() float64 { return m.Current().CPUPercent },
	))

	e.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "drishti_memory_mb",
			Help: "Smoothed process resident memory in megabytes",
		},
		func() float64 { return m.Current().MemoryMB },
	))

	e.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "drishti_frame_latency_ms",
			Help: "Smoothed per-frame processing latency in milliseconds",
		},
		func() float64 { return m.Current().LatencyMs },
	))

	e.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "drishti_frames_total",
			Help: "Total frames processed",
		},
		func() float64 { return float64(m.Summary().Frames) },
	))

	e.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "drishti_blinks_total",
			Help: "Total blinks detected this run",
		},
		func() float64 { return float64(counts.BlinkCount()) },
	))

	e.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "drishti_frowns_total",
			Help: "Total frowns detected this run",
		},
		func() float64 { return float64(counts.FrownCount()) },
	))

	e.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "drishti_distance_cm",
			Help: "Latest estimated screen distance in centimeters",
		},
		counts.DistanceCm,
	))

	return e
}

// Handler returns the Prometheus scrape handler for this exporter's
// registry.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
