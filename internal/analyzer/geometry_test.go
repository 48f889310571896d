package analyzer

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/drishti/internal/detector"
)

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestEyeAspectRatio(t *testing.T) {
	// Horizontal width 4, both vertical lid distances 2: EAR = (2+2)/(2*4)
	eye := []detector.Point2D{
		{X: 0, Y: 0},
		{X: 1, Y: 1},
		{X: 3, Y: 1},
		{X: 4, Y: 0},
		{X: 3, Y: -1},
		{X: 1, Y: -1},
	}

	ear, err := EyeAspectRatio(eye)
	if err != nil {
		t.Fatalf("EyeAspectRatio failed: %v", err)
	}
	if !approxEqual(ear, 0.5, 1e-9) {
		t.Errorf("Expected EAR 0.5, got %v", ear)
	}
}

func TestEyeAspectRatioClosedEye(t *testing.T) {
	// Lids collapsed onto the horizontal axis: EAR must be 0
	eye := []detector.Point2D{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 3, Y: 0},
		{X: 4, Y: 0},
		{X: 3, Y: 0},
		{X: 1, Y: 0},
	}

	ear, err := EyeAspectRatio(eye)
	if err != nil {
		t.Fatalf("EyeAspectRatio failed: %v", err)
	}
	if ear != 0 {
		t.Errorf("Expected EAR 0 for closed eye, got %v", ear)
	}
}

func TestEyeAspectRatioDegenerateWidth(t *testing.T) {
	// All six points coincide; the width is zero and must not be divided through
	eye := make([]detector.Point2D, 6)

	ear, err := EyeAspectRatio(eye)
	if err != nil {
		t.Fatalf("EyeAspectRatio failed: %v", err)
	}
	if ear != 0 {
		t.Errorf("Expected EAR 0 for degenerate eye, got %v", ear)
	}
}

func TestEyeAspectRatioWrongCardinality(t *testing.T) {
	for _, n := range []int{0, 5, 7} {
		_, err := EyeAspectRatio(make([]detector.Point2D, n))
		if !errors.Is(err, detector.ErrInvalidLandmarkSet) {
			t.Errorf("Expected ErrInvalidLandmarkSet for %d points, got %v", n, err)
		}
	}
}

func TestMouthAspectRatio(t *testing.T) {
	mouth := make([]detector.Point2D, 12)
	mouth[0] = detector.Point2D{X: 0, Y: 0}
	mouth[6] = detector.Point2D{X: 4, Y: 0}
	mouth[3] = detector.Point2D{X: 2, Y: 1}
	mouth[9] = detector.Point2D{X: 2, Y: -1}

	mar, err := MouthAspectRatio(mouth)
	if err != nil {
		t.Fatalf("MouthAspectRatio failed: %v", err)
	}
	if !approxEqual(mar, 0.5, 1e-9) {
		t.Errorf("Expected MAR 0.5, got %v", mar)
	}
}

func TestMouthAspectRatioWrongCardinality(t *testing.T) {
	_, err := MouthAspectRatio(make([]detector.Point2D, 11))
	if !errors.Is(err, detector.ErrInvalidLandmarkSet) {
		t.Errorf("Expected ErrInvalidLandmarkSet, got %v", err)
	}
}

func TestFaceWidth(t *testing.T) {
	jaw := make([]detector.Point2D, 17)
	jaw[0] = detector.Point2D{X: 0, Y: 0}
	jaw[16] = detector.Point2D{X: 3, Y: 4}

	width, err := FaceWidth(jaw)
	if err != nil {
		t.Fatalf("FaceWidth failed: %v", err)
	}
	if !approxEqual(width, 5, 1e-9) {
		t.Errorf("Expected width 5, got %v", width)
	}
}

func TestFaceWidthWrongCardinality(t *testing.T) {
	_, err := FaceWidth(make([]detector.Point2D, 16))
	if !errors.Is(err, detector.ErrInvalidLandmarkSet) {
		t.Errorf("Expected ErrInvalidLandmarkSet, got %v", err)
	}
}

func TestGeometryFromSyntheticFace(t *testing.T) {
	// The synthetic face generator must produce landmarks whose measured
	// geometry matches the requested values.
	tests := []struct {
		name  string
		ear   float64
		mar   float64
		width float64
	}{
		{"neutral", 0.30, 0.10, 300},
		{"closed eyes", 0.05, 0.10, 300},
		{"frowning", 0.30, 0.30, 300},
		{"close to screen", 0.30, 0.10, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			face := detector.SyntheticFaceLandmarks(tt.ear, tt.mar, tt.width)

			leftEAR, err := EyeAspectRatio(face.LeftEye())
			if err != nil {
				t.Fatalf("EyeAspectRatio(left) failed: %v", err)
			}
			rightEAR, err := EyeAspectRatio(face.RightEye())
			if err != nil {
				t.Fatalf("EyeAspectRatio(right) failed: %v", err)
			}
			mar, err := MouthAspectRatio(face.Mouth())
			if err != nil {
				t.Fatalf("MouthAspectRatio failed: %v", err)
			}
			width, err := FaceWidth(face.Jaw())
			if err != nil {
				t.Fatalf("FaceWidth failed: %v", err)
			}

			if !approxEqual(leftEAR, tt.ear, 0.01) {
				t.Errorf("Expected left EAR %v, got %v", tt.ear, leftEAR)
			}
			if !approxEqual(rightEAR, tt.ear, 0.01) {
				t.Errorf("Expected right EAR %v, got %v", tt.ear, rightEAR)
			}
			if !approxEqual(mar, tt.mar, 0.01) {
				t.Errorf("Expected MAR %v, got %v", tt.mar, mar)
			}
			if !approxEqual(width, tt.width, 1.0) {
				t.Errorf("Expected width %v, got %v", tt.width, width)
			}
		})
	}
}
