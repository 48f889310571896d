package app

import (
	"errors"
	"log"
	"time"

	"github.com/ayusman/drishti/internal/analyzer"
	"github.com/ayusman/drishti/internal/detector"
	"github.com/ayusman/drishti/internal/perf"
	"github.com/ayusman/drishti/internal/store"
)

// capturedFrame carries one frame's detection output from the capture
// stage to the metric stage.
type capturedFrame struct {
	faces     []detector.FaceLandmarks
	timestamp time.Time
	detectErr error

	// captureLatency covers camera read plus model inference.
	captureLatency time.Duration
}

// runCapture is the producer stage: it paces the camera at the target
// frame rate, runs detection on each frame, and hands the result to the
// metric stage. Closing stop ends the loop; the frames channel is
// closed on exit so the consumer drains and finishes.
func (a *App) runCapture(frames chan<- capturedFrame, stop <-chan struct{}) {
	defer close(frames)

	interval := time.Second / time.Duration(a.config.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			start := time.Now()

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			a.mu.RLock()
			d := a.detector
			a.mu.RUnlock()

			// DetectWithTimeout owns the frame from here.
			faces, detectErr := detector.DetectWithTimeout(d, frame, a.config.DetectTimeout)

			cf := capturedFrame{
				faces:          faces,
				timestamp:      start,
				detectErr:      detectErr,
				captureLatency: time.Since(start),
			}

			select {
			case frames <- cf:
			case <-stop:
				return
			}
		}
	}
}

// runPipeline is the consumer stage: it updates the analyzer and the
// performance monitor for every captured frame, in order, and publishes
// the result. Frames arrive one at a time, so the analyzer never sees
// concurrent updates.
func (a *App) runPipeline(frames <-chan capturedFrame) {
	defer close(a.doneCh)

	for cf := range frames {
		a.processFrame(cf)
	}
}

// processFrame runs one captured frame through the analyzer, records the
// frame's performance sample, persists event onsets, and publishes the
// merged result.
func (a *App) processFrame(cf capturedFrame) {
	processStart := time.Now()

	var res *analyzer.FrameResult
	face := detector.LargestFace(cf.faces)

	switch {
	case cf.detectErr != nil:
		if errors.Is(cf.detectErr, detector.ErrDetectionTimeout) {
			log.Println("Detection timed out, treating as missed frame")
		} else {
			log.Printf("Detection error: %v", cf.detectErr)
		}
		res = a.analyzer.ProcessMissed(cf.timestamp)

	case face == nil:
		res = a.analyzer.ProcessMissed(cf.timestamp)

	default:
		r, err := a.analyzer.Process(face, cf.timestamp)
		if err != nil {
			log.Printf("Rejecting malformed landmark set: %v", err)
			res = a.analyzer.ProcessMissed(cf.timestamp)
		} else {
			res = r
		}
	}

	cpu, mem, err := a.sampler.Sample()
	if err != nil {
		log.Printf("Resource sample failed: %v", err)
	}

	snap := a.monitor.Record(perf.Sample{
		CPUPercent: cpu,
		MemoryMB:   mem,
		Latency:    cf.captureLatency + time.Since(processStart),
		Timestamp:  cf.timestamp,
	})

	res.FPS = snap.FPS
	res.CPUPercent = snap.CPUPercent
	res.MemoryMB = snap.MemoryMB
	res.LatencyMs = snap.LatencyMs

	a.persistEvents(res)
	a.publish(res)
}

// persistEvents records blink, frown, and too-close onsets for the
// current session. Too-close is level-triggered by the analyzer, so only
// the transition into the condition is stored.
func (a *App) persistEvents(res *analyzer.FrameResult) {
	a.mu.Lock()
	tooCloseOnset := res.TooClose && !a.lastTooClose
	a.lastTooClose = res.TooClose
	a.mu.Unlock()

	if a.config.Store == nil {
		return
	}

	events := a.config.Store.Events()

	add := func(kind store.EventKind) {
		e := &store.Event{
			SessionID:  a.sessionID,
			Kind:       kind,
			OccurredAt: res.Timestamp,
			DistanceCm: res.DistanceCm,
		}
		if err := events.Add(e); err != nil {
			log.Printf("Failed to persist %s event: %v", kind, err)
		}
	}

	if res.Blinked {
		add(store.EventBlink)
	}
	if res.Frowned {
		add(store.EventFrown)
	}
	if tooCloseOnset {
		add(store.EventTooClose)
	}
}

// publish stores the result as the latest and fans it out to
// subscribers without blocking on any of them.
func (a *App) publish(res *analyzer.FrameResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.lastResult = res

	for ch := range a.subscribers {
		select {
		case ch <- *res:
		default:
			// Subscriber still holds an unread result; replace it so it
			// always wakes to the freshest frame.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- *res:
			default:
			}
		}
	}
}
