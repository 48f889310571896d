package detector

import (
	"errors"
	"time"

	"gocv.io/x/gocv"
)

// ErrDetectionTimeout is returned when the external detector exceeds its
// time bound. The pipeline treats it as a missed frame, not a failure.
var ErrDetectionTimeout = errors.New("detection timed out")

// Detector defines the interface for face landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns landmark sets for the
	// detected faces. Returns an empty slice if no face is detected.
	Detect(frame *gocv.Mat) ([]FaceLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for face landmark detection.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// Timeout bounds a single detection call so a stalled model inference
	// cannot wedge the pipeline.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence: 0.5,
		Timeout:       500 * time.Millisecond,
	}
}

// DetectWithTimeout runs d.Detect on the frame, giving up after timeout
// with ErrDetectionTimeout. The wrapper takes ownership of the frame and
// closes it once the detection call returns, even if the caller has
// already given up on the result.
func DetectWithTimeout(d Detector, frame *gocv.Mat, timeout time.Duration) ([]FaceLandmarks, error) {
	type result struct {
		faces []FaceLandmarks
		err   error
	}

	ch := make(chan result, 1)
	go func() {
		faces, err := d.Detect(frame)
		frame.Close()
		ch <- result{faces: faces, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.faces, r.err
	case <-timer.C:
		return nil, ErrDetectionTimeout
	}
}
