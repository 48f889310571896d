package detector

import (
	"math"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	faces []FaceLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFaces sets the faces that will be returned by Detect.
func (m *MockDetector) SetFaces(faces []FaceLandmarks) {
	m.faces = faces
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured faces or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]FaceLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.faces, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// SyntheticFaceLandmarks builds a geometrically consistent 68-point face
// whose eye aspect ratio, mouth aspect ratio, and jaw width come out to
// the given values. Used by the mock detector and by tests to script
// blink, frown, and distance scenarios.
func SyntheticFaceLandmarks(ear, mar, widthPx float64) FaceLandmarks {
	const (
		cx = 320.0
		cy = 240.0
	)

	f := FaceLandmarks{Score: 0.95}

	// Jaw outline: an arc whose endpoints fix the face width.
	for i := 0; i < JawEnd; i++ {
		t := float64(i) / float64(JawEnd-1)
		f.Points[JawStart+i] = Point2D{
			X: cx - widthPx/2 + t*widthPx,
			Y: cy + 80*math.Sin(math.Pi*t),
		}
	}

	// Eyes: six points each; the vertical lid offset h is chosen so that
	// (2h + 2h) / (2 * eyeWidth) equals the requested EAR.
	eyeWidth := widthPx * 0.15
	h := ear * eyeWidth / 2
	eyeY := cy - 40

	placeEye := func(start int, x0 float64) {
		f.Points[start+0] = Point2D{X: x0, Y: eyeY}
		f.Points[start+1] = Point2D{X: x0 + eyeWidth/3, Y: eyeY - h}
		f.Points[start+2] = Point2D{X: x0 + 2*eyeWidth/3, Y: eyeY - h}
		f.Points[start+3] = Point2D{X: x0 + eyeWidth, Y: eyeY}
		f.Points[start+4] = Point2D{X: x0 + 2*eyeWidth/3, Y: eyeY + h}
		f.Points[start+5] = Point2D{X: x0 + eyeWidth/3, Y: eyeY + h}
	}
	placeEye(RightEyeStart, cx-widthPx*0.3)
	placeEye(LeftEyeStart, cx+widthPx*0.3-eyeWidth)

	// Eyebrows: five points each, a little above the eyes.
	for i := 0; i < 5; i++ {
		step := float64(i) * eyeWidth / 4
		f.Points[RightBrowStart+i] = Point2D{X: cx - widthPx*0.3 + step, Y: eyeY - 25}
		f.Points[LeftBrowStart+i] = Point2D{X: cx + widthPx*0.3 - eyeWidth + step, Y: eyeY - 25}
	}

	// Nose: bridge then base.
	for i := 0; i < 4; i++ {
		f.Points[NoseStart+i] = Point2D{X: cx, Y: eyeY + float64(i)*15}
	}
	for i := 0; i < 5; i++ {
		f.Points[NoseStart+4+i] = Point2D{X: cx - 20 + float64(i)*10, Y: eyeY + 55}
	}

	// Outer mouth: twelve points; the vertical gap v between the upper and
	// lower mid-lip points over the corner-to-corner width gives the MAR.
	mouthWidth := widthPx * 0.35
	v := mar * mouthWidth
	mouthY := cy + 60
	mx := cx - mouthWidth/2

	f.Points[MouthStart+0] = Point2D{X: mx, Y: mouthY}
	f.Points[MouthStart+1] = Point2D{X: mx + mouthWidth/6, Y: mouthY - v*0.3}
	f.Points[MouthStart+2] = Point2D{X: mx + mouthWidth/3, Y: mouthY - v*0.45}
	f.Points[MouthStart+3] = Point2D{X: mx + mouthWidth/2, Y: mouthY - v/2}
	f.Points[MouthStart+4] = Point2D{X: mx + 2*mouthWidth/3, Y: mouthY - v*0.45}
	f.Points[MouthStart+5] = Point2D{X: mx + 5*mouthWidth/6, Y: mouthY - v*0.3}
	f.Points[MouthStart+6] = Point2D{X: mx + mouthWidth, Y: mouthY}
	f.Points[MouthStart+7] = Point2D{X: mx + 5*mouthWidth/6, Y: mouthY + v*0.3}
	f.Points[MouthStart+8] = Point2D{X: mx + 2*mouthWidth/3, Y: mouthY + v*0.45}
	f.Points[MouthStart+9] = Point2D{X: mx + mouthWidth/2, Y: mouthY + v/2}
	f.Points[MouthStart+10] = Point2D{X: mx + mouthWidth/3, Y: mouthY + v*0.45}
	f.Points[MouthStart+11] = Point2D{X: mx + mouthWidth/6, Y: mouthY + v*0.3}

	// Inner mouth: eight points just inside the outer lip line.
	for i := 0; i < 8; i++ {
		t := float64(i) / 7
		f.Points[MouthEnd+i] = Point2D{X: mx + mouthWidth*0.2 + t*mouthWidth*0.6, Y: mouthY}
	}

	return f
}

// NeutralFaceLandmarks returns a face with open eyes and a relaxed mouth
// at a typical monitor distance.
func NeutralFaceLandmarks() FaceLandmarks {
	return SyntheticFaceLandmarks(0.30, 0.10, 300)
}

// ClosedEyeFaceLandmarks returns a face with both eyes closed.
func ClosedEyeFaceLandmarks() FaceLandmarks {
	return SyntheticFaceLandmarks(0.05, 0.10, 300)
}

// FrownFaceLandmarks returns a face with the mouth deformation associated
// with frowning.
func FrownFaceLandmarks() FaceLandmarks {
	return SyntheticFaceLandmarks(0.30, 0.30, 300)
}
