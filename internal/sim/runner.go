// Package sim runs headless gravity simulations and collects their
// sampled output.
package sim

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/gravlab/gravlab/internal/geom"
	"github.com/gravlab/gravlab/internal/metrics"
	"github.com/gravlab/gravlab/internal/physics"
)

// Config controls a headless run.
type Config struct {
	Dt       float64 // step size in seconds
	Duration float64 // simulated time to cover
}

// Result holds the sampled output of a run. Rows of Positions line up
// with Times; columns follow the world's insertion order.
type Result struct {
	Times       []float64
	Positions   [][]geom.Vec2
	Energy      []float64
	EnergyDrift float64
	Ticks       uint64
	Metrics     map[string]float64
}

// Metric observes the world at every sample point and reduces what it
// saw to a single named value.
type Metric interface {
	Name() string
	Observe(w *physics.World, t float64)
	Value() float64
	Reset()
}

// Runner drives a world under a force law for a fixed duration,
// sampling every tick. The world passed to Run advances in place; use
// a clone to keep the original.
type Runner struct {
	Law    physics.Gravity
	Logger *zap.Logger

	metrics []Metric
}

// NewRunner returns a runner for law with the standard diagnostic set
// installed. A nil logger is replaced with a no-op one.
func NewRunner(law physics.Gravity, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Law:    law,
		Logger: logger,
		metrics: []Metric{
			metrics.NewEnergyDrift(law),
			metrics.NewMomentumDrift(),
			metrics.NewMinSeparation(),
		},
	}
}

// AddMetric registers an extra metric to be observed on every sample.
func (r *Runner) AddMetric(m Metric) {
	r.metrics = append(r.metrics, m)
}

// Run applies the force law and steps w until cfg.Duration is covered.
// Cancellation is honored between ticks; the partial result comes back
// along with the context error.
func (r *Runner) Run(ctx context.Context, w *physics.World, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	res := &Result{
		Times:     make([]float64, 0, steps+1),
		Positions: make([][]geom.Vec2, 0, steps+1),
		Energy:    make([]float64, 0, steps+1),
		Metrics:   make(map[string]float64),
	}

	record := func(t float64) {
		res.Times = append(res.Times, t)
		res.Positions = append(res.Positions, positions(w))
		res.Energy = append(res.Energy, r.Law.Energy(w))
		for _, m := range r.metrics {
			m.Observe(w, t)
		}
	}

	r.Logger.Info("run starting",
		zap.Int("bodies", w.Len()),
		zap.Int("steps", steps),
		zap.Float64("dt", cfg.Dt))

	for _, m := range r.metrics {
		m.Reset()
	}
	record(0)
	initialEnergy := res.Energy[0]

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		r.Law.Apply(w)
		w.Step(cfg.Dt)
		t += cfg.Dt
		record(t)
	}

	res.Ticks = w.Tick()

	final := res.Energy[len(res.Energy)-1]
	if initialEnergy != 0 {
		res.EnergyDrift = math.Abs(final-initialEnergy) / math.Abs(initialEnergy)
	}

	// Non-finite values would not survive the JSON round trip in the
	// store, so metrics that never saw enough data stay out of the map.
	for _, m := range r.metrics {
		if v := m.Value(); !math.IsInf(v, 0) && !math.IsNaN(v) {
			res.Metrics[m.Name()] = v
		}
	}

	r.Logger.Info("run finished",
		zap.Uint64("ticks", res.Ticks),
		zap.Float64("energy_drift", res.EnergyDrift))

	return res, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

func positions(w *physics.World) []geom.Vec2 {
	bodies := w.Bodies()
	out := make([]geom.Vec2, len(bodies))
	for i := range bodies {
		out[i] = bodies[i].Position()
	}
	return out
}
