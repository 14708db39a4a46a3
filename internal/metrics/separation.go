package metrics

import (
	"math"

	"github.com/gravlab/gravlab/internal/physics"
)

// MinSeparation records the smallest pairwise distance seen across all
// observations. Value reports +Inf until a world with at least two
// bodies has been observed.
type MinSeparation struct {
	closest float64
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{closest: math.Inf(1)}
}

func (m *MinSeparation) Name() string { return "min_separation" }

func (m *MinSeparation) Observe(w *physics.World, t float64) {
	bodies := w.Bodies()
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if d := bodies[i].Position().Dist(bodies[j].Position()); d < m.closest {
				m.closest = d
			}
		}
	}
}

func (m *MinSeparation) Value() float64 { return m.closest }

func (m *MinSeparation) Reset() {
	m.closest = math.Inf(1)
}
