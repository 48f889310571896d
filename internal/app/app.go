// Package app provides the main application logic for the Drishti face monitoring system.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/drishti/internal/analyzer"
	"github.com/ayusman/drishti/internal/capture"
	"github.com/ayusman/drishti/internal/detector"
	"github.com/ayusman/drishti/internal/perf"
	"github.com/ayusman/drishti/internal/store"
	"github.com/google/uuid"
)

// Config holds configuration options for the application.
type Config struct {
	Store         *store.Store
	CameraID      int
	FrameRate     int
	Analyzer      analyzer.Config
	PerfWindow    time.Duration
	DetectTimeout time.Duration

	// Sampler provides CPU/memory samples; nil selects the system sampler.
	Sampler perf.Sampler
}

// App owns the long-lived pipeline components and orchestrates the frame
// loop between them.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	analyzer *analyzer.Analyzer
	monitor  *perf.Monitor
	sampler  perf.Sampler

	sessionID    string
	sessionStart time.Time

	enabled      bool
	mu           sync.RWMutex
	stopCh       chan struct{}
	doneCh       chan struct{}
	lastResult   *analyzer.FrameResult
	lastTooClose bool
	subscribers  map[chan analyzer.FrameResult]struct{}
}

// New creates a new App instance with the given configuration.
// Invalid tuning parameters fail here, before any frame is processed.
func New(config Config) (*App, error) {
	if config.FrameRate <= 0 {
		config.FrameRate = capture.DefaultFPS
	}
	if config.PerfWindow <= 0 {
		config.PerfWindow = time.Second
	}
	if config.DetectTimeout <= 0 {
		config.DetectTimeout = 500 * time.Millisecond
	}

	an, err := analyzer.New(config.Analyzer)
	if err != nil {
		return nil, err
	}

	monitor, err := perf.NewMonitor(config.PerfWindow, config.FrameRate)
	if err != nil {
		return nil, err
	}

	sampler := config.Sampler
	if sampler == nil {
		if sys, err := perf.NewSystemSampler(); err == nil {
			sampler = sys
		} else {
			log.Printf("System sampler unavailable (%v), resource metrics disabled", err)
			sampler = &perf.StaticSampler{}
		}
	}

	a := &App{
		config:      config,
		camera:      capture.NewCamera(config.CameraID),
		analyzer:    an,
		monitor:     monitor,
		sampler:     sampler,
		enabled:     true,
		subscribers: make(map[chan analyzer.FrameResult]struct{}),
	}

	// Try the dlib landmark service first, fall back to the mock detector
	if d, err := detector.NewDlibDetector(detector.DefaultConfig()); err == nil {
		a.detector = d
		log.Println("Using dlib face landmark detection")
	} else {
		log.Printf("Landmark service not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// SetEnabled enables or disables face monitoring.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether face monitoring is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the landmark detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Start begins the monitoring pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.config.FrameRate)

	a.sessionID = uuid.NewString()
	a.sessionStart = time.Now()

	if a.config.Store != nil {
		if err := a.config.Store.Sessions().Create(a.sessionID, a.sessionStart); err != nil {
			log.Printf("Failed to create session row: %v", err)
		}
	}

	stopCh := make(chan struct{})
	a.stopCh = stopCh
	a.doneCh = make(chan struct{})

	// Two pipelined stages: capture+detect feeds the metric stage over a
	// capacity-1 channel, so a slow model inference never reorders or
	// duplicates frames and a slow consumer blocks the producer.
	frames := make(chan capturedFrame, 1)
	go a.runCapture(frames, stopCh)
	go a.runPipeline(frames)

	log.Println("Monitoring pipeline started")
	return nil
}

// Stop halts the monitoring pipeline, logs the final statistics, and
// persists the session summary.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	doneCh := a.doneCh
	a.mu.Unlock()

	// Wait for the in-flight frame to finish so the session summary
	// reflects every processed frame.
	<-doneCh

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	summary := a.monitor.Summary()
	a.logFinalStats(summary)
	a.persistSession(summary)

	log.Println("Monitoring pipeline stopped")
}

// Subscribe registers a listener for frame results. The returned channel
// receives at most one pending result; slow consumers see the freshest
// frame, not a backlog. The cancel function removes the subscription.
func (a *App) Subscribe() (<-chan analyzer.FrameResult, func()) {
	ch := make(chan analyzer.FrameResult, 1)

	a.mu.Lock()
	a.subscribers[ch] = struct{}{}
	a.mu.Unlock()

	cancel := func() {
		a.mu.Lock()
		delete(a.subscribers, ch)
		a.mu.Unlock()
	}
	return ch, cancel
}

// LastResult returns the most recent frame result, or nil before the
// first processed frame.
func (a *App) LastResult() *analyzer.FrameResult {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastResult
}

// BlinkCount returns the total blinks detected this run.
func (a *App) BlinkCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.lastResult == nil {
		return 0
	}
	return a.lastResult.BlinkCount
}

// FrownCount returns the total frowns detected this run.
func (a *App) FrownCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.lastResult == nil {
		return 0
	}
	return a.lastResult.FrownCount
}

// DistanceCm returns the latest distance estimate, or 0 before the
// first processed frame.
func (a *App) DistanceCm() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.lastResult == nil {
		return 0
	}
	return a.lastResult.DistanceCm
}

// Monitor returns the performance monitor.
func (a *App) Monitor() *perf.Monitor {
	return a.monitor
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// SessionID returns the ID of the current session.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// logFinalStats writes the end-of-run statistics block.
func (a *App) logFinalStats(s perf.Summary) {
	log.Println("=== Final Statistics ===")
	log.Printf("Total Runtime: %.1fs", s.Runtime.Seconds())
	log.Printf("Average CPU Usage: %.1f%%", s.AvgCPUPercent)
	log.Printf("Peak CPU Usage: %.1f%%", s.PeakCPUPercent)
	log.Printf("Average Memory Usage: %.1fMB", s.AvgMemoryMB)
	log.Printf("Peak Memory Usage: %.1fMB", s.PeakMemoryMB)
	log.Printf("Average FPS: %.1f", s.AvgFPS)
	log.Printf("Average Latency: %.1fms", s.AvgLatencyMs)
	log.Printf("Peak Latency: %.1fms", s.PeakLatencyMs)
	log.Printf("Total Frames Processed: %d", s.Frames)
	log.Printf("Total Blinks Detected: %d", a.analyzer.BlinkCount())
	log.Printf("Total Frowns Detected: %d", a.analyzer.FrownCount())
}

// persistSession writes the session summary row.
func (a *App) persistSession(s perf.Summary) {
	if a.config.Store == nil || a.sessionID == "" {
		return
	}

	session := &store.Session{
		ID:            a.sessionID,
		StartedAt:     a.sessionStart,
		Frames:        s.Frames,
		BlinkCount:    a.analyzer.BlinkCount(),
		FrownCount:    a.analyzer.FrownCount(),
		AvgCPUPct:     s.AvgCPUPercent,
		PeakCPUPct:    s.PeakCPUPercent,
		AvgMemMB:      s.AvgMemoryMB,
		PeakMemMB:     s.PeakMemoryMB,
		AvgFPS:        s.AvgFPS,
		AvgLatencyMs:  s.AvgLatencyMs,
		PeakLatencyMs: s.PeakLatencyMs,
	}
	session.EndedAt.Time = time.Now()
	session.EndedAt.Valid = true

	if err := a.config.Store.Sessions().Finish(session); err != nil {
		log.Printf("Failed to persist session summary: %v", err)
	}
}
