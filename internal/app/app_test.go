package app

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/drishti/internal/analyzer"
	"github.com/ayusman/drishti/internal/capture"
	"github.com/ayusman/drishti/internal/detector"
	"github.com/ayusman/drishti/internal/perf"
	"github.com/ayusman/drishti/internal/store"
	"gocv.io/x/gocv"
)

// scriptedDetector returns a per-call scripted landmark set, keyed by
// how many frames it has seen. Frame-count scripting keeps blink timing
// deterministic regardless of wall-clock jitter.
type scriptedDetector struct {
	mu     sync.Mutex
	calls  int
	script func(call int) []detector.FaceLandmarks
}

func (d *scriptedDetector) Detect(frame *gocv.Mat) ([]detector.FaceLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	call := d.calls
	d.calls++
	return d.script(call), nil
}

func (d *scriptedDetector) Close() error { return nil }

func newTestApp(t *testing.T, st *store.Store, script func(call int) []detector.FaceLandmarks) *App {
	t.Helper()

	cfg := analyzer.DefaultConfig()
	a, err := New(Config{
		Store:         st,
		FrameRate:     30,
		Analyzer:      cfg,
		PerfWindow:    time.Second,
		DetectTimeout: 500 * time.Millisecond,
		Sampler:       &perf.StaticSampler{CPUPercent: 20, MemoryMB: 100},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	mat := gocv.NewMatWithSize(capture.DefaultHeight, capture.DefaultWidth, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { mat.Close() })

	a.SetCamera(capture.NewMockCamera([]*gocv.Mat{&mat}, true))
	a.SetDetector(&scriptedDetector{script: script})

	return a
}

func TestPipelineEndToEnd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer st.Close()

	neutral := detector.NeutralFaceLandmarks()
	closed := detector.ClosedEyeFaceLandmarks()

	// Neutral frames with one sustained eye closure from frame 10:
	// exactly one blink must commit.
	a := newTestApp(t, st, func(call int) []detector.FaceLandmarks {
		if call >= 10 && call < 19 {
			return []detector.FaceLandmarks{closed}
		}
		return []detector.FaceLandmarks{neutral}
	})

	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	results, cancel := a.Subscribe()
	defer cancel()

	// Wait for the pipeline to work through the closure
	deadline := time.After(3 * time.Second)
	for a.BlinkCount() == 0 {
		select {
		case <-results:
		case <-deadline:
			t.Fatal("Timed out waiting for blink")
		}
	}

	res := a.LastResult()
	if res == nil {
		t.Fatal("Expected a frame result")
	}
	if !res.FaceFound {
		t.Error("Expected face found")
	}
	if res.CPUPercent != 20 || res.MemoryMB != 100 {
		t.Errorf("Expected sampler telemetry merged into result, got cpu=%v mem=%v",
			res.CPUPercent, res.MemoryMB)
	}

	sessionID := a.SessionID()
	a.Stop()

	if a.BlinkCount() != 1 {
		t.Errorf("Expected exactly 1 blink, got %d", a.BlinkCount())
	}

	// The session summary and the blink event must be persisted
	session, err := st.Sessions().GetByID(sessionID)
	if err != nil {
		t.Fatalf("Session not persisted: %v", err)
	}
	if !session.EndedAt.Valid {
		t.Error("Expected session marked finished")
	}
	if session.BlinkCount != 1 {
		t.Errorf("Expected persisted blink count 1, got %d", session.BlinkCount)
	}
	if session.Frames == 0 {
		t.Error("Expected persisted frame count")
	}

	blinks, err := st.Events().CountByKind(sessionID, store.EventBlink)
	if err != nil {
		t.Fatalf("CountByKind failed: %v", err)
	}
	if blinks != 1 {
		t.Errorf("Expected 1 persisted blink event, got %d", blinks)
	}
}

func TestPipelineHandlesMissedFrames(t *testing.T) {
	// The detector never finds a face; the pipeline must keep producing
	// results with FaceFound unset.
	a := newTestApp(t, nil, func(call int) []detector.FaceLandmarks {
		return nil
	})

	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer a.Stop()

	results, cancel := a.Subscribe()
	defer cancel()

	select {
	case res := <-results:
		if res.FaceFound {
			t.Error("Expected FaceFound=false with no detections")
		}
		if res.BlinkCount != 0 {
			t.Errorf("Expected no blinks, got %d", res.BlinkCount)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for frame result")
	}
}

func TestPipelinePause(t *testing.T) {
	neutral := detector.NeutralFaceLandmarks()
	a := newTestApp(t, nil, func(call int) []detector.FaceLandmarks {
		return []detector.FaceLandmarks{neutral}
	})

	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer a.Stop()

	results, cancel := a.Subscribe()
	defer cancel()

	select {
	case <-results:
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for first frame")
	}

	// Paused monitoring produces no frames
	a.SetEnabled(false)
	time.Sleep(100 * time.Millisecond)

	// Drain anything in flight, then expect silence
	select {
	case <-results:
	default:
	}

	select {
	case <-results:
		t.Error("Expected no frames while paused")
	case <-time.After(200 * time.Millisecond):
	}

	// Resuming picks the pipeline back up
	a.SetEnabled(true)
	select {
	case <-results:
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for frame after resume")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	neutral := detector.NeutralFaceLandmarks()
	a := newTestApp(t, nil, func(call int) []detector.FaceLandmarks {
		return []detector.FaceLandmarks{neutral}
	})

	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	a.Stop()
	a.Stop()
}
