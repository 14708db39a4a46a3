package physics

import "github.com/gravlab/gravlab/internal/geom"

// DefaultMinDistance is the floor applied to pair separations before
// the inverse-square falloff, keeping close encounters finite.
const DefaultMinDistance = 5.0

// Gravity is a pairwise attractive force law with magnitude G/r².
// Masses do not enter the force itself; they return when a body turns
// force into acceleration, so a heavy body accelerates less under the
// same pull.
type Gravity struct {
	G           float64
	MinDistance float64
}

// NewGravity returns the law with strength g and the default minimum
// separation.
func NewGravity(g float64) Gravity {
	return Gravity{G: g, MinDistance: DefaultMinDistance}
}

// Apply accumulates one tick of gravitational force onto every pair of
// bodies in w. Each unordered pair is computed once and receives equal
// and opposite forces, so total momentum is conserved exactly.
func (g Gravity) Apply(w *World) {
	for i := 0; i < len(w.slots); i++ {
		for j := i + 1; j < len(w.slots); j++ {
			bi, bj := &w.slots[i].body, &w.slots[j].body
			f := g.pairForce(bi.pos, bj.pos)
			bi.ApplyForce(f)
			bj.ApplyForce(f.Neg())
		}
	}
}

// ForceOn returns the gravitational force exerted on target by source.
// ForceOn(a, b) is the exact negation of ForceOn(b, a).
func (g Gravity) ForceOn(target, source *Body) geom.Vec2 {
	return g.pairForce(target.pos, source.pos)
}

// Energy returns the kinetic plus pair potential energy of w under g.
// The potential matching a G/r² force is -G/r per pair, evaluated with
// the same minimum separation Apply uses. Masses enter the kinetic
// term only; the pair potential is as mass-free as the force.
func (g Gravity) Energy(w *World) float64 {
	e := 0.0
	for i := range w.slots {
		b := &w.slots[i].body
		e += 0.5 * b.mass * b.vel.LenSq()
	}
	md := g.minDist()
	for i := 0; i < len(w.slots); i++ {
		for j := i + 1; j < len(w.slots); j++ {
			r := w.slots[i].body.pos.Dist(w.slots[j].body.pos)
			if r < md {
				r = md
			}
			e -= g.G / r
		}
	}
	return e
}

// pairForce returns the force on a body at p exerted by a body at q.
// Coincident points attract each other not at all: the zero separation
// has no direction to pull along.
func (g Gravity) pairForce(p, q geom.Vec2) geom.Vec2 {
	d := q.Sub(p)
	r := d.Len()
	if md := g.minDist(); r < md {
		r = md
	}
	return d.Normalized().Scale(g.G / (r * r))
}

// minDist returns the configured minimum separation, falling back to
// DefaultMinDistance when the field is zero or negative.
func (g Gravity) minDist() float64 {
	if g.MinDistance > 0 {
		return g.MinDistance
	}
	return DefaultMinDistance
}
