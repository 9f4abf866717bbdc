// internal/nn/scaler.go
package nn

import "math"

// GradScaler tracks a dynamic loss scale for mixed-precision style runs.
// The scale grows after a streak of finite steps and backs off when a
// non-finite value is observed.
type GradScaler struct {
	scale          float64
	growthFactor   float64
	backoffFactor  float64
	growthInterval int
	goodSteps      int
}

// NewGradScaler creates a scaler with the conventional defaults.
func NewGradScaler() *GradScaler {
	return &GradScaler{
		scale:          65536.0,
		growthFactor:   2.0,
		backoffFactor:  0.5,
		growthInterval: 2000,
	}
}

// Scale multiplies v by the current loss scale.
func (s *GradScaler) Scale(v float64) float64 { return v * s.scale }

// Unscale divides v by the current loss scale.
func (s *GradScaler) Unscale(v float64) float64 { return v / s.scale }

// CurrentScale returns the active loss scale.
func (s *GradScaler) CurrentScale() float64 { return s.scale }

// Update advances the scale schedule. Pass the (scaled) step value so the
// scaler can back off when it overflowed.
func (s *GradScaler) Update(scaled float64) {
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		s.scale *= s.backoffFactor
		s.goodSteps = 0
		return
	}
	s.goodSteps++
	if s.goodSteps >= s.growthInterval {
		s.scale *= s.growthFactor
		s.goodSteps = 0
	}
}
