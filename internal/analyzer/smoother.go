package analyzer

import "errors"

// ErrInvalidWindowSize is returned when a smoother is constructed with a
// non-positive window size.
var ErrInvalidWindowSize = errors.New("window size must be positive")

// recomputeEvery bounds how far the running sum can drift before it is
// recomputed from the window contents.
const recomputeEvery = 1024

// Smoother is a fixed-window rolling-average filter over a scalar stream.
// It keeps the last N samples in a ring buffer with a running sum, so a
// push is O(1) amortized.
type Smoother struct {
	window []float64
	next   int
	count  int
	sum    float64
	pushes int
}

// NewSmoother creates a Smoother with the given window size.
func NewSmoother(size int) (*Smoother, error) {
	if size <= 0 {
		return nil, ErrInvalidWindowSize
	}
	return &Smoother{
		window: make([]float64, size),
	}, nil
}

// Push appends x to the window, evicting the oldest sample if the window
// is full, and returns the arithmetic mean of the current contents.
// Before the window fills it returns the mean of however many samples
// exist.
func (s *Smoother) Push(x float64) float64 {
	if s.count == len(s.window) {
		s.sum -= s.window[s.next]
	} else {
		s.count++
	}

	s.window[s.next] = x
	s.sum += x
	s.next = (s.next + 1) % len(s.window)

	s.pushes++
	if s.pushes%recomputeEvery == 0 {
		s.recompute()
	}

	return s.sum / float64(s.count)
}

// Value returns the current mean without pushing a sample.
// Returns 0 when no samples have been pushed yet.
func (s *Smoother) Value() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

// Len returns the number of samples currently in the window.
func (s *Smoother) Len() int {
	return s.count
}

// recompute rebuilds the running sum from the window contents so that
// floating-point error cannot accumulate over long runs.
func (s *Smoother) recompute() {
	var sum float64
	for i := 0; i < s.count; i++ {
		sum += s.window[i]
	}
	s.sum = sum
}
