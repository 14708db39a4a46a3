package metrics

import (
	"github.com/gravlab/gravlab/internal/geom"
	"github.com/gravlab/gravlab/internal/physics"
)

// MomentumDrift tracks how far total linear momentum wanders from its
// value at the first observation. A pairwise force law that applies
// equal and opposite forces keeps this at rounding-error level.
type MomentumDrift struct {
	initial geom.Vec2
	max     float64
	samples int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(w *physics.World, t float64) {
	p := w.Momentum()
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	if d := p.Sub(m.initial).Len(); d > m.max {
		m.max = d
	}
}

func (m *MomentumDrift) Value() float64 { return m.max }

func (m *MomentumDrift) Reset() {
	*m = MomentumDrift{}
}
