package analyzer

import (
	"fmt"
	"time"
)

// FrownConfig holds the tuning parameters for frown detection.
type FrownConfig struct {
	// Threshold is the smoothed MAR above which the mouth counts as
	// deformed into a frown.
	Threshold float64

	// MinDuration is how long the MAR must stay above the threshold for
	// the deformation to count as a frown rather than noise.
	MinDuration time.Duration

	// Cooldown is the duration after a counted frown during which further
	// triggers are ignored.
	Cooldown time.Duration

	// FrameRate is the expected frame rate, used to derive the
	// consecutive-frame threshold from MinDuration.
	FrameRate int
}

// FrownDetector is a stateful debounce machine over the smoothed mouth
// aspect ratio. Structurally identical to BlinkDetector, but it triggers
// when the signal crosses above its threshold rather than below.
type FrownDetector struct {
	threshold   float64
	minFrames   int
	cooldown    time.Duration
	state       State
	aboveFrames int
	lastTrigger time.Time
	count       int
}

// NewFrownDetector creates a FrownDetector, validating the configuration.
func NewFrownDetector(cfg FrownConfig) (*FrownDetector, error) {
	if cfg.Threshold <= 0 {
		return nil, fmt.Errorf("frown threshold must be positive, got %v", cfg.Threshold)
	}
	if cfg.MinDuration <= 0 {
		return nil, fmt.Errorf("frown min duration must be positive, got %v", cfg.MinDuration)
	}
	if cfg.Cooldown <= 0 {
		return nil, fmt.Errorf("frown cooldown must be positive, got %v", cfg.Cooldown)
	}
	if cfg.FrameRate <= 0 {
		return nil, fmt.Errorf("frame rate must be positive, got %d", cfg.FrameRate)
	}

	return &FrownDetector{
		threshold: cfg.Threshold,
		minFrames: minTriggerFrames(cfg.MinDuration, cfg.FrameRate),
		cooldown:  cfg.Cooldown,
		state:     StateOpen,
	}, nil
}

// Update advances the machine by one frame of smoothed MAR.
// Returns true when this frame commits a frown.
func (d *FrownDetector) Update(mar float64, now time.Time) bool {
	if d.state == StateCooldown {
		if now.Sub(d.lastTrigger) < d.cooldown {
			return false
		}
		d.state = StateOpen
		d.aboveFrames = 0
	}

	if mar > d.threshold {
		d.aboveFrames++
		d.state = StateClosing
		if d.aboveFrames >= d.minFrames {
			d.count++
			d.state = StateCooldown
			d.lastTrigger = now
			d.aboveFrames = 0
			return true
		}
		return false
	}

	// The MAR relaxed before the minimum duration: noise, not a frown.
	d.state = StateOpen
	d.aboveFrames = 0
	return false
}

// Count returns the number of frowns committed so far.
func (d *FrownDetector) Count() int {
	return d.count
}

// State returns the current machine state.
func (d *FrownDetector) State() State {
	return d.state
}
