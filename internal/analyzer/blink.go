package analyzer

import (
	"fmt"
	"time"
)

// State identifies the phase of an event detector's debounce machine.
// Shared by BlinkDetector and FrownDetector.
type State int

const (
	// StateOpen means no event is in progress.
	StateOpen State = iota
	// StateClosing means the signal has crossed the threshold but the
	// minimum trigger duration has not elapsed yet.
	StateClosing
	// StateCooldown means an event was just counted and further triggers
	// are ignored until the cooldown elapses.
	StateCooldown
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// BlinkConfig holds the tuning parameters for blink detection.
type BlinkConfig struct {
	// Threshold is the smoothed EAR below which the eye counts as closed.
	Threshold float64

	// MinDuration is how long the EAR must stay below the threshold for a
	// dip to count as a blink rather than noise.
	MinDuration time.Duration

	// Cooldown is the duration after a counted blink during which further
	// triggers are ignored, so a prolonged closure or a rapid
	// double-trigger cannot be counted twice.
	Cooldown time.Duration

	// FrameRate is the expected frame rate, used to derive the
	// consecutive-frame threshold from MinDuration.
	FrameRate int
}

// BlinkDetector is a stateful debounce machine over the smoothed eye
// aspect ratio. Its count is monotonically non-decreasing and increments
// by exactly one per committed blink.
type BlinkDetector struct {
	threshold   float64
	minFrames   int
	cooldown    time.Duration
	state       State
	belowFrames int
	lastTrigger time.Time
	count       int
}

// NewBlinkDetector creates a BlinkDetector, validating the configuration.
func NewBlinkDetector(cfg BlinkConfig) (*BlinkDetector, error) {
	if cfg.Threshold <= 0 {
		return nil, fmt.Errorf("blink threshold must be positive, got %v", cfg.Threshold)
	}
	if cfg.MinDuration <= 0 {
		return nil, fmt.Errorf("blink min duration must be positive, got %v", cfg.MinDuration)
	}
	if cfg.Cooldown <= 0 {
		return nil, fmt.Errorf("blink cooldown must be positive, got %v", cfg.Cooldown)
	}
	if cfg.FrameRate <= 0 {
		return nil, fmt.Errorf("frame rate must be positive, got %d", cfg.FrameRate)
	}

	return &BlinkDetector{
		threshold: cfg.Threshold,
		minFrames: minTriggerFrames(cfg.MinDuration, cfg.FrameRate),
		cooldown:  cfg.Cooldown,
		state:     StateOpen,
	}, nil
}

// Update advances the machine by one frame of smoothed EAR.
// Returns true when this frame commits a blink.
func (d *BlinkDetector) Update(ear float64, now time.Time) bool {
	if d.state == StateCooldown {
		if now.Sub(d.lastTrigger) < d.cooldown {
			return false
		}
		d.state = StateOpen
		d.belowFrames = 0
	}

	if ear < d.threshold {
		d.belowFrames++
		d.state = StateClosing
		if d.belowFrames >= d.minFrames {
			d.count++
			d.state = StateCooldown
			d.lastTrigger = now
			d.belowFrames = 0
			return true
		}
		return false
	}

	// The EAR recovered before the minimum closed duration: noise, not a blink.
	d.state = StateOpen
	d.belowFrames = 0
	return false
}

// Count returns the number of blinks committed so far.
func (d *BlinkDetector) Count() int {
	return d.count
}

// State returns the current machine state.
func (d *BlinkDetector) State() State {
	return d.state
}

// minTriggerFrames converts a minimum trigger duration into a
// consecutive-frame count at the given frame rate, never less than one.
func minTriggerFrames(minDuration time.Duration, frameRate int) int {
	frames := int(minDuration.Seconds() * float64(frameRate))
	if frames < 1 {
		frames = 1
	}
	return frames
}
