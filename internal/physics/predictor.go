package physics

import (
	"fmt"

	"github.com/gravlab/gravlab/internal/geom"
)

// Default prediction parameters.
const (
	DefaultHorizon        = 600
	DefaultSampleDistance = 4.0
	DefaultFallbackStep   = 1.0 / 60
)

// Predictor traces the future path of one body by stepping a cloned
// world forward. Samples are spaced roughly SampleDistance apart along
// the path rather than evenly in time: each iteration derives its step
// from the body's current speed, so fast stretches sample as densely
// on screen as slow ones. The spacing is exact only while the speed
// holds within a step; on curved paths it is an approximation.
//
// Non-positive parameters fall back to the package defaults.
type Predictor struct {
	Law            Gravity
	Horizon        int     // number of samples
	SampleDistance float64 // path distance between samples
	FallbackStep   float64 // dt while the body is at rest
}

// NewPredictor returns a predictor for law with default horizon and
// sampling.
func NewPredictor(law Gravity) *Predictor {
	return &Predictor{
		Law:            law,
		Horizon:        DefaultHorizon,
		SampleDistance: DefaultSampleDistance,
		FallbackStep:   DefaultFallbackStep,
	}
}

// Trajectory returns the predicted positions of the body identified by
// target, one per horizon step. The live world is never touched; all
// stepping happens in a clone.
func (p *Predictor) Trajectory(w *World, target BodyHandle) ([]geom.Vec2, error) {
	if _, ok := w.Body(target); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBody, target)
	}

	horizon := p.Horizon
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	sample := p.SampleDistance
	if sample <= 0 {
		sample = DefaultSampleDistance
	}
	fallback := p.FallbackStep
	if fallback <= 0 {
		fallback = DefaultFallbackStep
	}

	c := w.Clone()
	path := make([]geom.Vec2, 0, horizon)
	for i := 0; i < horizon; i++ {
		b, _ := c.Body(target)
		dt := fallback
		if speed := b.Speed(); speed > 0 {
			dt = sample / speed
		}
		p.Law.Apply(c)
		c.Step(dt)
		b, _ = c.Body(target)
		path = append(path, b.Position())
	}
	return path, nil
}
