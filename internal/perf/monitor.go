// Package perf aggregates runtime performance telemetry over sliding
// windows: CPU load, memory use, frames per second, and per-frame
// processing latency.
package perf

import (
	"fmt"
	"sync"
	"time"
)

// Sample is one frame's worth of telemetry.
type Sample struct {
	CPUPercent float64
	MemoryMB   float64
	Latency    time.Duration
	Timestamp  time.Time
}

// Snapshot is the smoothed instantaneous view derived from the sliding
// windows, suitable for display without frame-to-frame jitter.
type Snapshot struct {
	FPS        float64
	CPUPercent float64
	MemoryMB   float64
	LatencyMs  float64
}

// Summary is the end-of-run aggregate: a pure read of accumulated state.
type Summary struct {
	Runtime        time.Duration
	Frames         int
	AvgCPUPercent  float64
	PeakCPUPercent float64
	AvgMemoryMB    float64
	PeakMemoryMB   float64
	AvgFPS         float64
	AvgLatencyMs   float64
	PeakLatencyMs  float64
}

// Monitor ingests one Sample per frame and maintains short sliding
// windows per metric alongside lifetime averages and peaks. FPS is the
// reciprocal of the smoothed inter-frame interval, not a per-frame
// instantaneous reciprocal. Safe for concurrent reads while the pipeline
// records.
type Monitor struct {
	mu        sync.Mutex
	cpu       *metricWindow
	mem       *metricWindow
	latency   *metricWindow
	interval  *metricWindow
	start     time.Time
	lastFrame time.Time
	frames    int
}

// NewMonitor creates a Monitor whose sliding windows cover roughly the
// given duration at the given frame rate.
func NewMonitor(window time.Duration, frameRate int) (*Monitor, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window duration must be positive, got %v", window)
	}
	if frameRate <= 0 {
		return nil, fmt.Errorf("frame rate must be positive, got %d", frameRate)
	}

	capacity := int(window.Seconds() * float64(frameRate))
	if capacity < 1 {
		capacity = 1
	}

	return &Monitor{
		cpu:      newMetricWindow(capacity),
		mem:      newMetricWindow(capacity),
		latency:  newMetricWindow(capacity),
		interval: newMetricWindow(capacity),
	}, nil
}

// Record ingests one frame's sample and returns the smoothed snapshot
// for that frame.
func (m *Monitor) Record(s Sample) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.start.IsZero() {
		m.start = s.Timestamp
	}
	if !m.lastFrame.IsZero() {
		m.interval.add(s.Timestamp.Sub(m.lastFrame).Seconds())
	}
	m.lastFrame = s.Timestamp
	m.frames++

	m.cpu.add(s.CPUPercent)
	m.mem.add(s.MemoryMB)
	m.latency.add(float64(s.Latency) / float64(time.Millisecond))

	return m.snapshotLocked()
}

// Current returns the smoothed instantaneous view without recording.
func (m *Monitor) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Monitor) snapshotLocked() Snapshot {
	snap := Snapshot{
		CPUPercent: m.cpu.mean(),
		MemoryMB:   m.mem.mean(),
		LatencyMs:  m.latency.mean(),
	}
	if iv := m.interval.mean(); iv > 0 {
		snap.FPS = 1.0 / iv
	}
	return snap
}

// Summary returns the end-of-run statistics accumulated so far.
func (m *Monitor) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{
		Frames:         m.frames,
		AvgCPUPercent:  m.cpu.lifetimeMean(),
		PeakCPUPercent: m.cpu.peak,
		AvgMemoryMB:    m.mem.lifetimeMean(),
		PeakMemoryMB:   m.mem.peak,
		AvgLatencyMs:   m.latency.lifetimeMean(),
		PeakLatencyMs:  m.latency.peak,
	}
	if !m.start.IsZero() {
		s.Runtime = m.lastFrame.Sub(m.start)
	}
	if iv := m.interval.lifetimeMean(); iv > 0 {
		s.AvgFPS = 1.0 / iv
	}
	return s
}
