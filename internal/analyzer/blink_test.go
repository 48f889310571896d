package analyzer

import (
	"testing"
	"time"
)

// testBlinkConfig yields minFrames = 3 at 30fps.
func testBlinkConfig() BlinkConfig {
	return BlinkConfig{
		Threshold:   0.25,
		MinDuration: 100 * time.Millisecond,
		Cooldown:    250 * time.Millisecond,
		FrameRate:   30,
	}
}

const frameInterval = 33 * time.Millisecond

func TestNewBlinkDetectorValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*BlinkConfig)
	}{
		{"zero threshold", func(c *BlinkConfig) { c.Threshold = 0 }},
		{"zero min duration", func(c *BlinkConfig) { c.MinDuration = 0 }},
		{"zero cooldown", func(c *BlinkConfig) { c.Cooldown = 0 }},
		{"zero frame rate", func(c *BlinkConfig) { c.FrameRate = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testBlinkConfig()
			tt.modify(&cfg)
			if _, err := NewBlinkDetector(cfg); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestBlinkCommitsAfterMinFrames(t *testing.T) {
	d, err := NewBlinkDetector(testBlinkConfig())
	if err != nil {
		t.Fatalf("NewBlinkDetector failed: %v", err)
	}

	now := time.Now()

	// Two frames below threshold: still closing, not committed
	for i := 0; i < 2; i++ {
		if d.Update(0.10, now) {
			t.Fatalf("Blink committed after %d frames, expected 3", i+1)
		}
		now = now.Add(frameInterval)
	}
	if d.State() != StateClosing {
		t.Errorf("Expected closing state, got %v", d.State())
	}

	// Third consecutive frame commits exactly one blink
	if !d.Update(0.10, now) {
		t.Fatal("Expected blink commit on third frame")
	}
	if d.Count() != 1 {
		t.Errorf("Expected count 1, got %d", d.Count())
	}
	if d.State() != StateCooldown {
		t.Errorf("Expected cooldown state, got %v", d.State())
	}
}

func TestBlinkIgnoresShortDip(t *testing.T) {
	d, err := NewBlinkDetector(testBlinkConfig())
	if err != nil {
		t.Fatalf("NewBlinkDetector failed: %v", err)
	}

	now := time.Now()

	// Two frames down, then recovery: noise, not a blink
	d.Update(0.10, now)
	d.Update(0.10, now.Add(frameInterval))
	d.Update(0.30, now.Add(2*frameInterval))

	if d.Count() != 0 {
		t.Errorf("Expected count 0 after short dip, got %d", d.Count())
	}
	if d.State() != StateOpen {
		t.Errorf("Expected open state after recovery, got %v", d.State())
	}

	// The aborted dip must not shorten a later blink
	d.Update(0.10, now.Add(3*frameInterval))
	d.Update(0.10, now.Add(4*frameInterval))
	if d.Count() != 0 {
		t.Errorf("Frames before recovery leaked into new dip, count %d", d.Count())
	}
}

func TestBlinkCooldownSuppressesRetrigger(t *testing.T) {
	d, err := NewBlinkDetector(testBlinkConfig())
	if err != nil {
		t.Fatalf("NewBlinkDetector failed: %v", err)
	}

	now := time.Now()

	// Hold the eye closed: one blink commits, then cooldown holds
	for i := 0; i < 7; i++ {
		d.Update(0.10, now)
		now = now.Add(frameInterval)
	}
	if d.Count() != 1 {
		t.Errorf("Expected exactly one blink during prolonged closure, got %d", d.Count())
	}

	// After the cooldown elapses a sustained closure may commit again
	now = now.Add(300 * time.Millisecond)
	for i := 0; i < 3; i++ {
		d.Update(0.10, now)
		now = now.Add(frameInterval)
	}
	if d.Count() != 2 {
		t.Errorf("Expected second blink after cooldown, got %d", d.Count())
	}
}

func TestBlinkDoubleDipWithinCooldown(t *testing.T) {
	d, err := NewBlinkDetector(testBlinkConfig())
	if err != nil {
		t.Fatalf("NewBlinkDetector failed: %v", err)
	}

	now := time.Now()
	dip := func() {
		for i := 0; i < 3; i++ {
			d.Update(0.10, now)
			now = now.Add(frameInterval)
		}
	}

	// Two dips separated by a single open frame, well inside the cooldown
	dip()
	d.Update(0.30, now)
	now = now.Add(frameInterval)
	dip()

	if d.Count() != 1 {
		t.Errorf("Expected 1 blink for a rapid double-dip, got %d", d.Count())
	}
}

func TestBlinkCountMonotonic(t *testing.T) {
	d, err := NewBlinkDetector(testBlinkConfig())
	if err != nil {
		t.Fatalf("NewBlinkDetector failed: %v", err)
	}

	now := time.Now()
	prev := 0

	// Alternate closures and recoveries; the count must never decrease
	for i := 0; i < 200; i++ {
		ear := 0.30
		if i%20 < 8 {
			ear = 0.10
		}
		d.Update(ear, now)
		now = now.Add(frameInterval)

		if d.Count() < prev {
			t.Fatalf("Count decreased from %d to %d", prev, d.Count())
		}
		prev = d.Count()
	}

	if d.Count() == 0 {
		t.Error("Expected at least one blink over the run")
	}
}

func TestBlinkMinFramesNeverBelowOne(t *testing.T) {
	cfg := testBlinkConfig()
	cfg.MinDuration = time.Millisecond
	cfg.FrameRate = 5

	d, err := NewBlinkDetector(cfg)
	if err != nil {
		t.Fatalf("NewBlinkDetector failed: %v", err)
	}

	// Duration shorter than a frame still requires one full frame
	if !d.Update(0.10, time.Now()) {
		t.Error("Expected commit on first below-threshold frame")
	}
}
