package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Addr != ":8080" {
		t.Errorf("Expected default addr :8080, got %s", cfg.Addr)
	}
	if cfg.CameraID != -1 {
		t.Errorf("Expected default camera -1 (probe), got %d", cfg.CameraID)
	}
	if cfg.FrameRate != 30 {
		t.Errorf("Expected default frame rate 30, got %d", cfg.FrameRate)
	}
	if cfg.SmoothingWindow != 5 {
		t.Errorf("Expected default smoothing window 5, got %d", cfg.SmoothingWindow)
	}
	if cfg.EARThreshold != 0.25 {
		t.Errorf("Expected default EAR threshold 0.25, got %v", cfg.EARThreshold)
	}
	if cfg.MARThreshold != 0.20 {
		t.Errorf("Expected default MAR threshold 0.20, got %v", cfg.MARThreshold)
	}
	if cfg.BlinkCooldown != 250*time.Millisecond {
		t.Errorf("Expected default blink cooldown 250ms, got %v", cfg.BlinkCooldown)
	}
	if cfg.ReferenceWidthPx != 300 || cfg.ReferenceDistanceCm != 50 {
		t.Errorf("Expected default calibration 300px@50cm, got %vpx@%vcm",
			cfg.ReferenceWidthPx, cfg.ReferenceDistanceCm)
	}
	if cfg.MinSafeDistanceCm != 40 {
		t.Errorf("Expected default min safe distance 40cm, got %v", cfg.MinSafeDistanceCm)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default configuration must validate, got %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DRISHTI_ADDR", ":9090")
	t.Setenv("DRISHTI_FPS", "60")
	t.Setenv("DRISHTI_EAR_THRESHOLD", "0.22")
	t.Setenv("DRISHTI_BLINK_COOLDOWN", "400ms")
	t.Setenv("DRISHTI_CAMERA", "2")

	cfg := Load()

	if cfg.Addr != ":9090" {
		t.Errorf("Expected addr :9090, got %s", cfg.Addr)
	}
	if cfg.FrameRate != 60 {
		t.Errorf("Expected frame rate 60, got %d", cfg.FrameRate)
	}
	if cfg.EARThreshold != 0.22 {
		t.Errorf("Expected EAR threshold 0.22, got %v", cfg.EARThreshold)
	}
	if cfg.BlinkCooldown != 400*time.Millisecond {
		t.Errorf("Expected blink cooldown 400ms, got %v", cfg.BlinkCooldown)
	}
	if cfg.CameraID != 2 {
		t.Errorf("Expected camera 2, got %d", cfg.CameraID)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("DRISHTI_FPS", "not-a-number")
	t.Setenv("DRISHTI_BLINK_COOLDOWN", "soon")

	cfg := Load()

	if cfg.FrameRate != 30 {
		t.Errorf("Expected fallback frame rate 30, got %d", cfg.FrameRate)
	}
	if cfg.BlinkCooldown != 250*time.Millisecond {
		t.Errorf("Expected fallback cooldown 250ms, got %v", cfg.BlinkCooldown)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero frame rate", func(c *Config) { c.FrameRate = 0 }},
		{"negative smoothing window", func(c *Config) { c.SmoothingWindow = -1 }},
		{"zero EAR threshold", func(c *Config) { c.EARThreshold = 0 }},
		{"zero MAR threshold", func(c *Config) { c.MARThreshold = 0 }},
		{"zero perf window", func(c *Config) { c.PerfWindow = 0 }},
		{"zero detect timeout", func(c *Config) { c.DetectTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestAnalyzerConfig(t *testing.T) {
	t.Setenv("DRISHTI_FPS", "24")
	t.Setenv("DRISHTI_MAR_THRESHOLD", "0.18")

	cfg := Load()
	ac := cfg.AnalyzerConfig()

	if ac.SmoothingWindow != cfg.SmoothingWindow {
		t.Errorf("Smoothing window mismatch: %d vs %d", ac.SmoothingWindow, cfg.SmoothingWindow)
	}
	if ac.Blink.FrameRate != 24 || ac.Frown.FrameRate != 24 {
		t.Errorf("Frame rate not propagated to detectors: %d, %d",
			ac.Blink.FrameRate, ac.Frown.FrameRate)
	}
	if ac.Frown.Threshold != 0.18 {
		t.Errorf("Expected frown threshold 0.18, got %v", ac.Frown.Threshold)
	}
	if ac.Distance.Calibration.ReferenceWidthPx != cfg.ReferenceWidthPx {
		t.Errorf("Calibration not propagated")
	}
}
