package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/gravlab/gravlab/internal/geom"
)

func TestPredictorStraightLineSpacing(t *testing.T) {
	w := NewWorld()
	b, _ := NewBody(geom.Vec2{}, geom.V(10, 0), 1)
	h, _ := w.AddBody(b)

	p := NewPredictor(Gravity{G: 0})
	p.Horizon = 8
	p.SampleDistance = 5

	path, err := p.Trajectory(w, h)
	if err != nil {
		t.Fatalf("trajectory failed: %v", err)
	}

	if len(path) != 8 {
		t.Fatalf("expected 8 samples, got %d", len(path))
	}
	for i, pt := range path {
		want := 5 * float64(i+1)
		if math.Abs(pt.X-want) > 1e-9 || math.Abs(pt.Y) > 1e-9 {
			t.Errorf("sample %d: expected (%f, 0), got %v", i, want, pt)
		}
	}
}

func TestPredictorRestingBody(t *testing.T) {
	w := NewWorld()
	b, _ := NewBody(geom.V(3, 4), geom.Vec2{}, 1)
	h, _ := w.AddBody(b)

	p := NewPredictor(Gravity{G: 0})
	p.Horizon = 5

	path, err := p.Trajectory(w, h)
	if err != nil {
		t.Fatalf("trajectory failed: %v", err)
	}

	if len(path) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(path))
	}
	for i, pt := range path {
		if pt != geom.V(3, 4) {
			t.Errorf("sample %d: expected the resting body to stay put, got %v", i, pt)
		}
	}
}

func TestPredictorUnknownHandle(t *testing.T) {
	w := NewWorld()
	p := NewPredictor(NewGravity(1000))

	if _, err := p.Trajectory(w, BodyHandle(3)); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("expected ErrUnknownBody, got %v", err)
	}
}

func TestPredictorZeroValueDefaults(t *testing.T) {
	w := NewWorld()
	b, _ := NewBody(geom.Vec2{}, geom.V(1, 0), 1)
	h, _ := w.AddBody(b)

	var p Predictor
	path, err := p.Trajectory(w, h)
	if err != nil {
		t.Fatalf("trajectory failed: %v", err)
	}
	if len(path) != DefaultHorizon {
		t.Errorf("expected %d samples, got %d", DefaultHorizon, len(path))
	}
}
