package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gravlab/gravlab/internal/geom"
	"github.com/gravlab/gravlab/internal/physics"
)

const (
	DefaultG        = 10000000.0
	DefaultDt       = 1.0 / 60
	DefaultDuration = 30.0
)

type Scenario struct {
	Name        string          `yaml:"name"`
	G           float64         `yaml:"g"`
	MinDistance float64         `yaml:"min_distance"`
	Dt          float64         `yaml:"dt"`
	Duration    float64         `yaml:"duration"`
	Bodies      []BodyConfig    `yaml:"bodies"`
	Predictor   PredictorConfig `yaml:"predictor"`
	View        ViewConfig      `yaml:"view"`
}

type BodyConfig struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	VX   float64 `yaml:"vx"`
	VY   float64 `yaml:"vy"`
	Mass float64 `yaml:"mass"`
}

type PredictorConfig struct {
	Horizon        int     `yaml:"horizon"`
	SampleDistance float64 `yaml:"sample_distance"`
	FallbackStep   float64 `yaml:"fallback_step"`
}

// ViewConfig steers the live view: Follow is the index of the body the
// camera frame tracks (-1 for a fixed camera), AlignVelocity rotates
// that frame against the body's heading.
type ViewConfig struct {
	Follow        int     `yaml:"follow"`
	AlignVelocity bool    `yaml:"align_velocity"`
	Zoom          float64 `yaml:"zoom"`
}

func DefaultScenario() *Scenario {
	return &Scenario{
		Name:        "binary",
		G:           DefaultG,
		MinDistance: physics.DefaultMinDistance,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Bodies: []BodyConfig{
			{X: 320, Y: 240, VX: 25, VY: 0, Mass: 10},
			{X: 320, Y: 60, VX: -250, VY: 0, Mass: 1},
		},
		Predictor: PredictorConfig{
			Horizon:        physics.DefaultHorizon,
			SampleDistance: physics.DefaultSampleDistance,
			FallbackStep:   physics.DefaultFallbackStep,
		},
		View: ViewConfig{Follow: 1, AlignVelocity: true, Zoom: 1},
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultScenario()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func Save(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Scenario) Clone() *Scenario {
	c := *s
	c.Bodies = append([]BodyConfig(nil), s.Bodies...)
	return &c
}

func (s *Scenario) Validate() error {
	if s.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", s.Dt)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", s.Duration)
	}
	if s.G < 0 {
		return fmt.Errorf("g must not be negative, got %f", s.G)
	}
	if s.MinDistance < 0 {
		return fmt.Errorf("min_distance must not be negative, got %f", s.MinDistance)
	}
	if len(s.Bodies) == 0 {
		return fmt.Errorf("scenario needs at least one body")
	}
	for i, b := range s.Bodies {
		if b.Mass <= 0 {
			return fmt.Errorf("body %d: mass must be positive, got %f", i, b.Mass)
		}
	}
	if s.View.Follow >= len(s.Bodies) {
		return fmt.Errorf("view.follow %d out of range for %d bodies", s.View.Follow, len(s.Bodies))
	}
	return nil
}

// BuildWorld validates the scenario and assembles its world. Handles
// come back in body order.
func (s *Scenario) BuildWorld() (*physics.World, []physics.BodyHandle, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	w := physics.NewWorld()
	handles := make([]physics.BodyHandle, 0, len(s.Bodies))
	for i, bc := range s.Bodies {
		b, err := physics.NewBody(geom.V(bc.X, bc.Y), geom.V(bc.VX, bc.VY), bc.Mass)
		if err != nil {
			return nil, nil, fmt.Errorf("body %d: %w", i, err)
		}
		h, err := w.AddBody(b)
		if err != nil {
			return nil, nil, fmt.Errorf("body %d: %w", i, err)
		}
		handles = append(handles, h)
	}
	return w, handles, nil
}

func (s *Scenario) Law() physics.Gravity {
	g := physics.NewGravity(s.G)
	if s.MinDistance > 0 {
		g.MinDistance = s.MinDistance
	}
	return g
}

func (s *Scenario) BuildPredictor() *physics.Predictor {
	p := physics.NewPredictor(s.Law())
	if s.Predictor.Horizon > 0 {
		p.Horizon = s.Predictor.Horizon
	}
	if s.Predictor.SampleDistance > 0 {
		p.SampleDistance = s.Predictor.SampleDistance
	}
	if s.Predictor.FallbackStep > 0 {
		p.FallbackStep = s.Predictor.FallbackStep
	}
	return p
}
