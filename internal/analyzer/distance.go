package analyzer

import "fmt"

// widthEpsilon is the face width below which a measurement is treated as
// degenerate rather than divided through.
const widthEpsilon = 1e-6

// Calibration fixes the reference pair for distance estimation: a known
// face width in pixels measured at a known distance. Read-only after
// construction.
type Calibration struct {
	ReferenceWidthPx    float64
	ReferenceDistanceCm float64
}

// DistanceConfig holds the parameters for distance estimation.
type DistanceConfig struct {
	Calibration Calibration

	// MinSafeCm is the distance below which the too-close flag is raised.
	MinSafeCm float64

	// MinCm and MaxCm clamp the estimate to a sane range; a value of 0
	// disables the corresponding bound.
	MinCm float64
	MaxCm float64
}

// DistanceEstimator maps a measured face width in pixels to a distance in
// centimeters under a pinhole-camera approximation:
// distance = reference_width_px * reference_distance_cm / current_width_px.
type DistanceEstimator struct {
	cal     Calibration
	minSafe float64
	minCm   float64
	maxCm   float64
	last    float64
	hasLast bool
}

// NewDistanceEstimator creates a DistanceEstimator, validating the
// calibration.
func NewDistanceEstimator(cfg DistanceConfig) (*DistanceEstimator, error) {
	if cfg.Calibration.ReferenceWidthPx <= 0 {
		return nil, fmt.Errorf("reference width must be positive, got %v", cfg.Calibration.ReferenceWidthPx)
	}
	if cfg.Calibration.ReferenceDistanceCm <= 0 {
		return nil, fmt.Errorf("reference distance must be positive, got %v", cfg.Calibration.ReferenceDistanceCm)
	}
	if cfg.MinSafeCm < 0 {
		return nil, fmt.Errorf("min safe distance must not be negative, got %v", cfg.MinSafeCm)
	}
	if cfg.MinCm < 0 || (cfg.MaxCm > 0 && cfg.MaxCm < cfg.MinCm) {
		return nil, fmt.Errorf("invalid distance bounds [%v, %v]", cfg.MinCm, cfg.MaxCm)
	}

	return &DistanceEstimator{
		cal:     cfg.Calibration,
		minSafe: cfg.MinSafeCm,
		minCm:   cfg.MinCm,
		maxCm:   cfg.MaxCm,
	}, nil
}

// Estimate maps the smoothed face width in pixels to a distance in
// centimeters and reports whether it is under the safe minimum. A
// near-zero width is a degenerate measurement: the previous valid
// estimate is carried forward instead of propagating an error.
func (e *DistanceEstimator) Estimate(widthPx float64) (float64, bool) {
	if widthPx < widthEpsilon {
		return e.last, e.hasLast && e.last < e.minSafe
	}

	d := e.cal.ReferenceWidthPx * e.cal.ReferenceDistanceCm / widthPx

	if e.minCm > 0 && d < e.minCm {
		d = e.minCm
	}
	if e.maxCm > 0 && d > e.maxCm {
		d = e.maxCm
	}

	e.last = d
	e.hasLast = true

	return d, d < e.minSafe
}

// Last returns the most recent valid estimate, or 0 if none exists yet.
func (e *DistanceEstimator) Last() float64 {
	return e.last
}
