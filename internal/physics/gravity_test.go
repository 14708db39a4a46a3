package physics

import (
	"math"
	"testing"

	"github.com/gravlab/gravlab/internal/geom"
)

func TestGravityForceMagnitude(t *testing.T) {
	g := Gravity{G: 66700000, MinDistance: 5}

	a, _ := NewBody(geom.V(320, 240), geom.V(40, 0), 10)
	b, _ := NewBody(geom.V(320, 60), geom.V(-400, 0), 1)

	// Separation (0, -180), so |F| = G/180² ≈ 2058.64 on each body.
	f := g.ForceOn(&a, &b)
	if math.Abs(f.Len()-2058.6419753) > 1e-6 {
		t.Errorf("expected force magnitude ~2058.64, got %f", f.Len())
	}
	if f.X != 0 || f.Y >= 0 {
		t.Errorf("expected force along -y toward the other body, got %v", f)
	}
}

func TestGravityTwoBodyStep(t *testing.T) {
	w := NewWorld()
	a, _ := NewBody(geom.V(320, 240), geom.V(40, 0), 10)
	b, _ := NewBody(geom.V(320, 60), geom.V(-400, 0), 1)
	ha, _ := w.AddBody(a)
	hb, _ := w.AddBody(b)

	g := Gravity{G: 66700000, MinDistance: 5}
	g.Apply(w)

	fm := 66700000.0 / (180.0 * 180.0)

	ba, _ := w.Body(ha)
	bb, _ := w.Body(hb)
	if aa := ba.Acceleration(); aa.X != 0 || math.Abs(aa.Y+fm/10) > 1e-9 {
		t.Errorf("expected heavy body acceleration (0, %f), got %v", -fm/10, aa)
	}
	if ab := bb.Acceleration(); ab.X != 0 || math.Abs(ab.Y-fm) > 1e-9 {
		t.Errorf("expected light body acceleration (0, %f), got %v", fm, ab)
	}

	dt := 0.016
	w.Step(dt)

	ba, _ = w.Body(ha)
	bb, _ = w.Body(hb)

	wantVA := geom.V(40, -fm/10*dt)
	wantPA := geom.V(320+wantVA.X*dt, 240+wantVA.Y*dt)
	if va := ba.Velocity(); math.Abs(va.X-wantVA.X) > 1e-9 || math.Abs(va.Y-wantVA.Y) > 1e-9 {
		t.Errorf("expected velocity %v, got %v", wantVA, va)
	}
	if pa := ba.Position(); math.Abs(pa.X-wantPA.X) > 1e-9 || math.Abs(pa.Y-wantPA.Y) > 1e-9 {
		t.Errorf("expected position %v, got %v", wantPA, pa)
	}

	wantVB := geom.V(-400, fm*dt)
	wantPB := geom.V(320+wantVB.X*dt, 60+wantVB.Y*dt)
	if vb := bb.Velocity(); math.Abs(vb.X-wantVB.X) > 1e-9 || math.Abs(vb.Y-wantVB.Y) > 1e-9 {
		t.Errorf("expected velocity %v, got %v", wantVB, vb)
	}
	if pb := bb.Position(); math.Abs(pb.X-wantPB.X) > 1e-9 || math.Abs(pb.Y-wantPB.Y) > 1e-9 {
		t.Errorf("expected position %v, got %v", wantPB, pb)
	}
}

func TestGravityEqualAndOpposite(t *testing.T) {
	g := NewGravity(1000)

	a, _ := NewBody(geom.V(3, 7), geom.Vec2{}, 2)
	b, _ := NewBody(geom.V(-40, 13.5), geom.Vec2{}, 9)

	fab := g.ForceOn(&a, &b)
	fba := g.ForceOn(&b, &a)

	if sum := fab.Add(fba); math.Abs(sum.X) > 1e-12 || math.Abs(sum.Y) > 1e-12 {
		t.Errorf("expected forces to cancel, got residual %v", sum)
	}
}

func TestGravityMinDistanceClamp(t *testing.T) {
	g := Gravity{G: 100, MinDistance: 5}

	a, _ := NewBody(geom.V(0, 0), geom.Vec2{}, 1)
	b, _ := NewBody(geom.V(1, 0), geom.Vec2{}, 1)

	// r=1 clamps to 5: |F| = 100/25 = 4 rather than 100.
	f := g.ForceOn(&a, &b)
	if math.Abs(f.Len()-4) > 1e-12 {
		t.Errorf("expected clamped magnitude 4, got %f", f.Len())
	}
	if f.X <= 0 {
		t.Errorf("expected pull along +x, got %v", f)
	}
}

func TestGravityCoincidentBodies(t *testing.T) {
	w := NewWorld()
	b1, _ := NewBody(geom.V(5, 5), geom.Vec2{}, 1)
	b2, _ := NewBody(geom.V(5, 5), geom.Vec2{}, 2)
	h1, _ := w.AddBody(b1)
	h2, _ := w.AddBody(b2)

	NewGravity(1e9).Apply(w)

	for _, h := range []BodyHandle{h1, h2} {
		b, _ := w.Body(h)
		if a := b.Acceleration(); !a.IsZero() {
			t.Errorf("expected zero force between coincident bodies, got %v", a)
		}
	}
}

func TestGravityConservesMomentum(t *testing.T) {
	w := NewWorld()
	seeds := []struct{ x, y, vx, vy, m float64 }{
		{0, 0, 1, 2, 5},
		{100, 40, -3, 0, 1},
		{-60, 80, 0, -2, 12},
		{30, -200, 4, 4, 0.5},
	}
	for _, s := range seeds {
		b, err := NewBody(geom.V(s.x, s.y), geom.V(s.vx, s.vy), s.m)
		if err != nil {
			t.Fatalf("new body failed: %v", err)
		}
		if _, err := w.AddBody(b); err != nil {
			t.Fatalf("add body failed: %v", err)
		}
	}

	g := NewGravity(5e6)
	before := w.Momentum()

	for i := 0; i < 500; i++ {
		g.Apply(w)
		w.Step(1.0 / 120)
	}

	after := w.Momentum()
	if math.Abs(after.X-before.X) > 1e-6 || math.Abs(after.Y-before.Y) > 1e-6 {
		t.Errorf("expected momentum %v conserved, got %v", before, after)
	}
}

func TestGravityEnergyFinite(t *testing.T) {
	w := NewWorld()
	b1, _ := NewBody(geom.V(0, 0), geom.V(0, 1), 2)
	b2, _ := NewBody(geom.V(10, 0), geom.V(0, -1), 2)
	if _, err := w.AddBody(b1); err != nil {
		t.Fatalf("add body failed: %v", err)
	}
	if _, err := w.AddBody(b2); err != nil {
		t.Fatalf("add body failed: %v", err)
	}

	g := NewGravity(100)

	// Kinetic 0.5*2*1 twice, potential -100/10.
	e := g.Energy(w)
	if math.Abs(e-(2-10)) > 1e-12 {
		t.Errorf("expected energy -8, got %f", e)
	}
}

func TestGravityEnergyStaysBounded(t *testing.T) {
	w := NewWorld()
	sun, _ := NewBody(geom.V(0, 0), geom.Vec2{}, 100)
	planet, _ := NewBody(geom.V(0, -150), geom.V(60, 0), 1)
	if _, err := w.AddBody(sun); err != nil {
		t.Fatalf("add body failed: %v", err)
	}
	if _, err := w.AddBody(planet); err != nil {
		t.Fatalf("add body failed: %v", err)
	}

	g := NewGravity(5e5)
	start := g.Energy(w)

	worst := 0.0
	for i := 0; i < 2000; i++ {
		g.Apply(w)
		w.Step(1.0 / 120)
		if d := math.Abs(g.Energy(w) - start); d > worst {
			worst = d
		}
	}

	// Semi-implicit Euler lets energy oscillate but not run away.
	if worst > math.Abs(start)*0.5 {
		t.Errorf("energy wandered %f from start %f", worst, start)
	}
}
