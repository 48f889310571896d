package analyzer

import (
	"fmt"
	"time"

	"github.com/ayusman/drishti/internal/detector"
)

// Config holds the tuning parameters for the whole analyzer.
type Config struct {
	// SmoothingWindow is the rolling-average window size, in frames,
	// applied to the EAR, MAR, and face-width signals.
	SmoothingWindow int

	Blink    BlinkConfig
	Frown    FrownConfig
	Distance DistanceConfig
}

// DefaultConfig returns a Config with defaults tuned against a typical
// webcam at 30 frames per second.
func DefaultConfig() Config {
	return Config{
		SmoothingWindow: 5,
		Blink: BlinkConfig{
			Threshold:   0.25,
			MinDuration: 100 * time.Millisecond,
			Cooldown:    250 * time.Millisecond,
			FrameRate:   30,
		},
		Frown: FrownConfig{
			Threshold:   0.20,
			MinDuration: 200 * time.Millisecond,
			Cooldown:    500 * time.Millisecond,
			FrameRate:   30,
		},
		Distance: DistanceConfig{
			Calibration: Calibration{
				ReferenceWidthPx:    300,
				ReferenceDistanceCm: 50,
			},
			MinSafeCm: 40,
			MinCm:     20,
			MaxCm:     200,
		},
	}
}

// Analyzer runs one frame's landmarks through geometry extraction,
// smoothing, and the blink, frown, and distance detectors in a fixed
// order. It owns the long-lived smoothers and detectors; all temporal
// memory lives inside those components. Not safe for concurrent use:
// frames must be processed strictly sequentially.
type Analyzer struct {
	earSmoother   *Smoother
	marSmoother   *Smoother
	widthSmoother *Smoother
	blink         *BlinkDetector
	frown         *FrownDetector
	distance      *DistanceEstimator
}

// New creates an Analyzer from the given configuration. Invalid
// configuration fails here, before any frame is processed.
func New(cfg Config) (*Analyzer, error) {
	earSmoother, err := NewSmoother(cfg.SmoothingWindow)
	if err != nil {
		return nil, fmt.Errorf("ear smoother: %w", err)
	}
	marSmoother, err := NewSmoother(cfg.SmoothingWindow)
	if err != nil {
		return nil, fmt.Errorf("mar smoother: %w", err)
	}
	widthSmoother, err := NewSmoother(cfg.SmoothingWindow)
	if err != nil {
		return nil, fmt.Errorf("width smoother: %w", err)
	}

	blink, err := NewBlinkDetector(cfg.Blink)
	if err != nil {
		return nil, fmt.Errorf("blink detector: %w", err)
	}
	frown, err := NewFrownDetector(cfg.Frown)
	if err != nil {
		return nil, fmt.Errorf("frown detector: %w", err)
	}
	distance, err := NewDistanceEstimator(cfg.Distance)
	if err != nil {
		return nil, fmt.Errorf("distance estimator: %w", err)
	}

	return &Analyzer{
		earSmoother:   earSmoother,
		marSmoother:   marSmoother,
		widthSmoother: widthSmoother,
		blink:         blink,
		frown:         frown,
		distance:      distance,
	}, nil
}

// Process runs a single frame's landmark set through the pipeline and
// returns the frame result. A malformed landmark set rejects the frame
// and keeps all prior state intact.
func (a *Analyzer) Process(face *detector.FaceLandmarks, now time.Time) (*FrameResult, error) {
	if face == nil {
		return nil, detector.ErrInvalidLandmarkSet
	}

	// Geometry extraction. Both eyes are measured and averaged, as a
	// single-eye EAR is too sensitive to head pose.
	leftEAR, err := EyeAspectRatio(face.LeftEye())
	if err != nil {
		return nil, err
	}
	rightEAR, err := EyeAspectRatio(face.RightEye())
	if err != nil {
		return nil, err
	}
	mar, err := MouthAspectRatio(face.Mouth())
	if err != nil {
		return nil, err
	}
	width, err := FaceWidth(face.Jaw())
	if err != nil {
		return nil, err
	}

	// Smoothing, then the detectors, in fixed order.
	ear := a.earSmoother.Push((leftEAR + rightEAR) / 2.0)
	smoothedMAR := a.marSmoother.Push(mar)
	smoothedWidth := a.widthSmoother.Push(width)

	blinked := a.blink.Update(ear, now)
	frowned := a.frown.Update(smoothedMAR, now)
	distanceCm, tooClose := a.distance.Estimate(smoothedWidth)

	return &FrameResult{
		Timestamp:  now,
		FaceFound:  true,
		EAR:        ear,
		MAR:        smoothedMAR,
		DistanceCm: distanceCm,
		BlinkCount: a.blink.Count(),
		FrownCount: a.frown.Count(),
		Blinked:    blinked,
		Frowned:    frowned,
		TooClose:   tooClose,
	}, nil
}

// ProcessMissed produces the frame result for a frame with no landmark
// set (detection failed or timed out). Detector and smoother state is
// untouched; the result carries the running counts and the last valid
// distance forward.
func (a *Analyzer) ProcessMissed(now time.Time) *FrameResult {
	return &FrameResult{
		Timestamp:  now,
		FaceFound:  false,
		EAR:        a.earSmoother.Value(),
		MAR:        a.marSmoother.Value(),
		DistanceCm: a.distance.Last(),
		BlinkCount: a.blink.Count(),
		FrownCount: a.frown.Count(),
	}
}

// BlinkCount returns the total number of blinks committed this run.
func (a *Analyzer) BlinkCount() int {
	return a.blink.Count()
}

// FrownCount returns the total number of frowns committed this run.
func (a *Analyzer) FrownCount() int {
	return a.frown.Count()
}
