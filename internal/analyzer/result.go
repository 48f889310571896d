package analyzer

import "time"

// FrameResult is the per-frame aggregate exposed to the rendering and
// logging collaborators. One immutable instance per processed frame.
// The performance fields are filled in by the owning pipeline from its
// monitor; everything else comes from the analyzer.
type FrameResult struct {
	Timestamp  time.Time `json:"timestamp"`
	FaceFound  bool      `json:"face_found"`
	EAR        float64   `json:"ear"`
	MAR        float64   `json:"mar"`
	DistanceCm float64   `json:"distance_cm"`
	BlinkCount int       `json:"blink_count"`
	FrownCount int       `json:"frown_count"`
	Blinked    bool      `json:"blinked"`
	Frowned    bool      `json:"frowned"`
	TooClose   bool      `json:"too_close"`
	FPS        float64   `json:"fps"`
	CPUPercent float64   `json:"cpu_pct"`
	MemoryMB   float64   `json:"mem_mb"`
	LatencyMs  float64   `json:"latency_ms"`
}
