package perf

import (
	"math"
	"testing"
	"time"
)

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestNewMonitorValidation(t *testing.T) {
	if _, err := NewMonitor(0, 30); err == nil {
		t.Error("Expected error for zero window")
	}
	if _, err := NewMonitor(time.Second, 0); err == nil {
		t.Error("Expected error for zero frame rate")
	}
}

func TestMonitorSteadyState(t *testing.T) {
	m, err := NewMonitor(time.Second, 20)
	if err != nil {
		t.Fatalf("NewMonitor failed: %v", err)
	}

	base := time.Now()
	var snap Snapshot

	// 40 frames at exactly 50ms spacing with constant telemetry
	for i := 0; i < 40; i++ {
		snap = m.Record(Sample{
			CPUPercent: 35,
			MemoryMB:   120,
			Latency:    20 * time.Millisecond,
			Timestamp:  base.Add(time.Duration(i) * 50 * time.Millisecond),
		})
	}

	if !approxEqual(snap.FPS, 20, 0.01) {
		t.Errorf("Expected FPS 20, got %v", snap.FPS)
	}
	if !approxEqual(snap.CPUPercent, 35, 1e-9) {
		t.Errorf("Expected CPU 35, got %v", snap.CPUPercent)
	}
	if !approxEqual(snap.MemoryMB, 120, 1e-9) {
		t.Errorf("Expected memory 120, got %v", snap.MemoryMB)
	}
	if !approxEqual(snap.LatencyMs, 20, 1e-9) {
		t.Errorf("Expected latency 20ms, got %v", snap.LatencyMs)
	}

	summary := m.Summary()
	if summary.Frames != 40 {
		t.Errorf("Expected 40 frames, got %d", summary.Frames)
	}
	if !approxEqual(summary.AvgLatencyMs, 20, 1e-9) {
		t.Errorf("Expected avg latency 20ms, got %v", summary.AvgLatencyMs)
	}
	if !approxEqual(summary.PeakLatencyMs, 20, 1e-9) {
		t.Errorf("Expected peak latency 20ms, got %v", summary.PeakLatencyMs)
	}
	if !approxEqual(summary.AvgFPS, 20, 0.01) {
		t.Errorf("Expected avg FPS 20, got %v", summary.AvgFPS)
	}
	if !approxEqual(summary.Runtime.Seconds(), 39*0.05, 1e-9) {
		t.Errorf("Expected runtime 1.95s, got %v", summary.Runtime)
	}
}

func TestMonitorWindowForgetsOldSamples(t *testing.T) {
	// A 5-frame window at 5fps over one second
	m, err := NewMonitor(time.Second, 5)
	if err != nil {
		t.Fatalf("NewMonitor failed: %v", err)
	}

	base := time.Now()
	step := 200 * time.Millisecond

	// A latency spike, then enough quiet frames to push it out of the window
	m.Record(Sample{Latency: 500 * time.Millisecond, Timestamp: base})

	var snap Snapshot
	for i := 1; i <= 5; i++ {
		snap = m.Record(Sample{Latency: 10 * time.Millisecond, Timestamp: base.Add(time.Duration(i) * step)})
	}

	if !approxEqual(snap.LatencyMs, 10, 1e-9) {
		t.Errorf("Expected spike evicted from window, got smoothed %v", snap.LatencyMs)
	}

	// The lifetime peak still remembers it
	if got := m.Summary().PeakLatencyMs; !approxEqual(got, 500, 1e-9) {
		t.Errorf("Expected peak latency 500ms, got %v", got)
	}
}

func TestMonitorPeaks(t *testing.T) {
	m, err := NewMonitor(time.Second, 30)
	if err != nil {
		t.Fatalf("NewMonitor failed: %v", err)
	}

	base := time.Now()
	cpus := []float64{10, 80, 30}
	for i, cpu := range cpus {
		m.Record(Sample{CPUPercent: cpu, MemoryMB: 100 + cpu, Timestamp: base.Add(time.Duration(i) * 33 * time.Millisecond)})
	}

	summary := m.Summary()
	if !approxEqual(summary.PeakCPUPercent, 80, 1e-9) {
		t.Errorf("Expected peak CPU 80, got %v", summary.PeakCPUPercent)
	}
	if !approxEqual(summary.PeakMemoryMB, 180, 1e-9) {
		t.Errorf("Expected peak memory 180, got %v", summary.PeakMemoryMB)
	}
	if !approxEqual(summary.AvgCPUPercent, 40, 1e-9) {
		t.Errorf("Expected avg CPU 40, got %v", summary.AvgCPUPercent)
	}
}

func TestMonitorEmpty(t *testing.T) {
	m, err := NewMonitor(time.Second, 30)
	if err != nil {
		t.Fatalf("NewMonitor failed: %v", err)
	}

	snap := m.Current()
	if snap.FPS != 0 || snap.LatencyMs != 0 {
		t.Errorf("Expected zero snapshot before any sample, got %+v", snap)
	}

	summary := m.Summary()
	if summary.Frames != 0 || summary.Runtime != 0 {
		t.Errorf("Expected empty summary, got %+v", summary)
	}
}

func TestMonitorSingleFrameHasNoInterval(t *testing.T) {
	m, err := NewMonitor(time.Second, 30)
	if err != nil {
		t.Fatalf("NewMonitor failed: %v", err)
	}

	snap := m.Record(Sample{Latency: 5 * time.Millisecond, Timestamp: time.Now()})
	if snap.FPS != 0 {
		t.Errorf("Expected FPS 0 after a single frame, got %v", snap.FPS)
	}
}

func TestStaticSampler(t *testing.T) {
	s := &StaticSampler{CPUPercent: 12, MemoryMB: 256}

	cpu, mem, err := s.Sample()
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if cpu != 12 || mem != 256 {
		t.Errorf("Expected (12, 256), got (%v, %v)", cpu, mem)
	}
}
