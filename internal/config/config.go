// Package config loads the application configuration from the
// environment. All values are static once loaded; invalid values fail
// at startup, before any frame is processed.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ayusman/drishti/internal/analyzer"
)

// Config holds every tunable the monitor exposes.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// DBPath is the sqlite database path. Empty means the default under
	// the user's home directory.
	DBPath string

	// CameraID selects the capture device; -1 probes for a working one.
	CameraID int

	// FrameRate is the target processing frame rate.
	FrameRate int

	// SmoothingWindow is the rolling-average window size in frames.
	SmoothingWindow int

	EARThreshold     float64
	BlinkMinDuration time.Duration
	BlinkCooldown    time.Duration

	MARThreshold     float64
	FrownMinDuration time.Duration
	FrownCooldown    time.Duration

	ReferenceWidthPx    float64
	ReferenceDistanceCm float64
	MinSafeDistanceCm   float64
	MinDistanceCm       float64
	MaxDistanceCm       float64

	// PerfWindow is the duration covered by the performance sliding windows.
	PerfWindow time.Duration

	// DetectTimeout bounds a single landmark detection call.
	DetectTimeout time.Duration
}

// Load reads the configuration from the environment, falling back to
// defaults tuned for a typical webcam at 30fps.
func Load() *Config {
	return &Config{
		Addr:                getEnv("DRISHTI_ADDR", ":8080"),
		DBPath:              getEnv("DRISHTI_DB", ""),
		CameraID:            getEnvInt("DRISHTI_CAMERA", -1),
		FrameRate:           getEnvInt("DRISHTI_FPS", 30),
		SmoothingWindow:     getEnvInt("DRISHTI_SMOOTHING_WINDOW", 5),
		EARThreshold:        getEnvFloat("DRISHTI_EAR_THRESHOLD", 0.25),
		BlinkMinDuration:    getEnvDuration("DRISHTI_BLINK_MIN_DURATION", 100*time.Millisecond),
		BlinkCooldown:       getEnvDuration("DRISHTI_BLINK_COOLDOWN", 250*time.Millisecond),
		MARThreshold:        getEnvFloat("DRISHTI_MAR_THRESHOLD", 0.20),
		FrownMinDuration:    getEnvDuration("DRISHTI_FROWN_MIN_DURATION", 200*time.Millisecond),
		FrownCooldown:       getEnvDuration("DRISHTI_FROWN_COOLDOWN", 500*time.Millisecond),
		ReferenceWidthPx:    getEnvFloat("DRISHTI_REF_WIDTH_PX", 300),
		ReferenceDistanceCm: getEnvFloat("DRISHTI_REF_DISTANCE_CM", 50),
		MinSafeDistanceCm:   getEnvFloat("DRISHTI_MIN_SAFE_CM", 40),
		MinDistanceCm:       getEnvFloat("DRISHTI_MIN_DISTANCE_CM", 20),
		MaxDistanceCm:       getEnvFloat("DRISHTI_MAX_DISTANCE_CM", 200),
		PerfWindow:          getEnvDuration("DRISHTI_PERF_WINDOW", time.Second),
		DetectTimeout:       getEnvDuration("DRISHTI_DETECT_TIMEOUT", 500*time.Millisecond),
	}
}

// Validate rejects configuration that would misconfigure the pipeline.
// Called once at startup; a failure here is a caller mistake, not a
// runtime condition.
func (c *Config) Validate() error {
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", c.FrameRate)
	}
	if c.SmoothingWindow <= 0 {
		return fmt.Errorf("smoothing window must be positive, got %d", c.SmoothingWindow)
	}
	if c.EARThreshold <= 0 || c.MARThreshold <= 0 {
		return fmt.Errorf("thresholds must be positive, got EAR=%v MAR=%v", c.EARThreshold, c.MARThreshold)
	}
	if c.PerfWindow <= 0 {
		return fmt.Errorf("perf window must be positive, got %v", c.PerfWindow)
	}
	if c.DetectTimeout <= 0 {
		return fmt.Errorf("detect timeout must be positive, got %v", c.DetectTimeout)
	}
	return nil
}

// AnalyzerConfig assembles the analyzer configuration from the loaded
// values.
func (c *Config) AnalyzerConfig() analyzer.Config {
	return analyzer.Config{
		SmoothingWindow: c.SmoothingWindow,
		Blink: analyzer.BlinkConfig{
			Threshold:   c.EARThreshold,
			MinDuration: c.BlinkMinDuration,
			Cooldown:    c.BlinkCooldown,
			FrameRate:   c.FrameRate,
		},
		Frown: analyzer.FrownConfig{
			Threshold:   c.MARThreshold,
			MinDuration: c.FrownMinDuration,
			Cooldown:    c.FrownCooldown,
			FrameRate:   c.FrameRate,
		},
		Distance: analyzer.DistanceConfig{
			Calibration: analyzer.Calibration{
				ReferenceWidthPx:    c.ReferenceWidthPx,
				ReferenceDistanceCm: c.ReferenceDistanceCm,
			},
			MinSafeCm: c.MinSafeDistanceCm,
			MinCm:     c.MinDistanceCm,
			MaxCm:     c.MaxDistanceCm,
		},
	}
}

func getEnv(k, d string) string {
	if val, ok := os.LookupEnv(k); ok {
		return val
	}
	return d
}

func getEnvInt(k string, d int) int {
	if val, ok := os.LookupEnv(k); ok {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return d
}

func getEnvFloat(k string, d float64) float64 {
	if val, ok := os.LookupEnv(k); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return d
}

func getEnvDuration(k string, d time.Duration) time.Duration {
	if val, ok := os.LookupEnv(k); ok {
		if dur, err := time.ParseDuration(val); err == nil {
			return dur
		}
	}
	return d
}
