// Package analyzer turns per-frame face landmarks into smoothed geometric
// signals, discrete behavioral events (blink, frown), and a calibrated
// screen-distance estimate.
package analyzer

import (
	"math"

	"github.com/ayusman/drishti/internal/detector"
)

// Landmark counts expected by the geometry functions.
const (
	eyePointCount   = 6
	mouthPointCount = 12
	jawPointCount   = 17
)

// EyeAspectRatio computes the standard 6-point eye aspect ratio: the mean
// of the two vertical eyelid distances over the horizontal eye width.
// The ratio drops sharply toward 0 during a blink and sits in a stable
// band (typically 0.2-0.35) for an open eye.
func EyeAspectRatio(eye []detector.Point2D) (float64, error) {
	if len(eye) != eyePointCount {
		return 0, detector.ErrInvalidLandmarkSet
	}

	a := pointDistance(eye[1], eye[5])
	b := pointDistance(eye[2], eye[4])
	c := pointDistance(eye[0], eye[3])

	if c == 0 {
		return 0, nil
	}
	return (a + b) / (2.0 * c), nil
}

// MouthAspectRatio computes the ratio of the vertical mid-lip distance to
// the corner-to-corner mouth width over the twelve outer mouth landmarks.
// It rises when the mouth deformation associated with frowning is present.
func MouthAspectRatio(mouth []detector.Point2D) (float64, error) {
	if len(mouth) != mouthPointCount {
		return 0, detector.ErrInvalidLandmarkSet
	}

	a := pointDistance(mouth[3], mouth[9])
	c := pointDistance(mouth[0], mouth[6])

	if c == 0 {
		return 0, nil
	}
	return a / c, nil
}

// FaceWidth computes the Euclidean distance in pixels between the two
// outermost jaw landmarks.
func FaceWidth(jaw []detector.Point2D) (float64, error) {
	if len(jaw) != jawPointCount {
		return 0, detector.ErrInvalidLandmarkSet
	}
	return pointDistance(jaw[0], jaw[jawPointCount-1]), nil
}

// pointDistance calculates the Euclidean distance between two 2D points.
func pointDistance(a, b detector.Point2D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
