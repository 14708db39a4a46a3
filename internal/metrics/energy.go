package metrics

import (
	"math"

	"github.com/gravlab/gravlab/internal/physics"
)

// EnergyDrift tracks the largest relative excursion of total energy
// from its value at the first observation.
type EnergyDrift struct {
	law      physics.Gravity
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(law physics.Gravity) *EnergyDrift {
	return &EnergyDrift{law: law}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(w *physics.World, t float64) {
	energy := e.law.Energy(w)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
