// Package detector provides face landmark detection interfaces and types for face monitoring.
package detector

import "errors"

// Landmark index ranges following the dlib 68-point convention.
// See: http://dlib.net/face_landmark_detection.py.html
const (
	JawStart       = 0
	JawEnd         = 17
	RightBrowStart = 17
	RightBrowEnd   = 22
	LeftBrowStart  = 22
	LeftBrowEnd    = 27
	NoseStart      = 27
	NoseEnd        = 36
	RightEyeStart  = 36
	RightEyeEnd    = 42
	LeftEyeStart   = 42
	LeftEyeEnd     = 48
	MouthStart     = 48
	MouthEnd       = 60
	InnerMouthEnd  = 68
	NumLandmarks   = 68
)

// ErrInvalidLandmarkSet is returned when a landmark set does not have
// the expected 68-point cardinality.
var ErrInvalidLandmarkSet = errors.New("invalid landmark set")

// Point2D represents a 2D point in pixel coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FaceLandmarks represents the 68 facial landmarks detected for one face.
// A FaceLandmarks value is immutable once created and is discarded after
// the frame's metrics are derived.
type FaceLandmarks struct {
	Points [NumLandmarks]Point2D `json:"points"`
	Score  float64               `json:"score"`
}

// NewFaceLandmarks builds a FaceLandmarks from a raw point slice,
// rejecting any set that is not exactly 68 points.
func NewFaceLandmarks(points []Point2D, score float64) (*FaceLandmarks, error) {
	if len(points) != NumLandmarks {
		return nil, ErrInvalidLandmarkSet
	}

	f := &FaceLandmarks{Score: score}
	copy(f.Points[:], points)
	return f, nil
}

// LeftEye returns the six landmarks outlining the left eye.
func (f *FaceLandmarks) LeftEye() []Point2D {
	return f.Points[LeftEyeStart:LeftEyeEnd]
}

// RightEye returns the six landmarks outlining the right eye.
func (f *FaceLandmarks) RightEye() []Point2D {
	return f.Points[RightEyeStart:RightEyeEnd]
}

// Mouth returns the twelve outer mouth landmarks.
func (f *FaceLandmarks) Mouth() []Point2D {
	return f.Points[MouthStart:MouthEnd]
}

// Jaw returns the seventeen jaw outline landmarks.
func (f *FaceLandmarks) Jaw() []Point2D {
	return f.Points[JawStart:JawEnd]
}

// LargestFace selects the face with the widest jaw outline.
// Returns nil for an empty slice. The pipeline processes exactly one face
// per frame, so when the detector reports several this picks the dominant
// (closest) one.
func LargestFace(faces []FaceLandmarks) *FaceLandmarks {
	var best *FaceLandmarks
	bestWidth := -1.0

	for i := range faces {
		f := &faces[i]
		width := f.Points[JawEnd-1].X - f.Points[JawStart].X
		if width < 0 {
			width = -width
		}
		if width > bestWidth {
			bestWidth = width
			best = f
		}
	}

	return best
}
