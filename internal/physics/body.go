package physics

import (
	"fmt"
	"math"

	"github.com/gravlab/gravlab/internal/geom"
)

// Body is a point mass. Forces and accelerations applied during a tick
// collect in an accumulator; Integrate folds the accumulator into the
// velocity and position and clears it for the next tick.
//
// Body is a plain value: assignment copies it completely.
type Body struct {
	pos   geom.Vec2
	vel   geom.Vec2
	accum geom.Vec2
	mass  float64
}

// NewBody returns a body at pos moving with vel. The mass must be
// finite and strictly positive.
func NewBody(pos, vel geom.Vec2, mass float64) (Body, error) {
	if !validMass(mass) {
		return Body{}, fmt.Errorf("%w: got %v", ErrInvalidMass, mass)
	}
	return Body{pos: pos, vel: vel, mass: mass}, nil
}

// DefaultBody returns a unit-mass body at rest at the origin.
func DefaultBody() Body {
	return Body{mass: 1}
}

func validMass(m float64) bool {
	return m > 0 && !math.IsInf(m, 0)
}

// ApplyForce adds the acceleration f/m to the accumulator.
func (b *Body) ApplyForce(f geom.Vec2) {
	b.accum = b.accum.Add(f.Scale(1 / b.mass))
}

// ApplyAcceleration adds a to the accumulator directly, independent of
// the body's mass. Uniform fields enter this way.
func (b *Body) ApplyAcceleration(a geom.Vec2) {
	b.accum = b.accum.Add(a)
}

// Integrate advances the body by dt with semi-implicit Euler: the
// accumulated acceleration updates the velocity first, then the new
// velocity carries the position. The two updates must not be reordered
// or split. The accumulator is cleared afterwards.
func (b *Body) Integrate(dt float64) {
	b.vel = b.vel.Add(b.accum.Scale(dt))
	b.pos = b.pos.Add(b.vel.Scale(dt))
	b.accum = geom.Vec2{}
}

// Position returns the body's position.
func (b *Body) Position() geom.Vec2 { return b.pos }

// Velocity returns the body's velocity.
func (b *Body) Velocity() geom.Vec2 { return b.vel }

// Speed returns the magnitude of the body's velocity.
func (b *Body) Speed() float64 { return b.vel.Len() }

// Mass returns the body's mass.
func (b *Body) Mass() float64 { return b.mass }

// Acceleration returns the acceleration accumulated since the last
// integration step.
func (b *Body) Acceleration() geom.Vec2 { return b.accum }

// TotalForce returns the net force equivalent to the accumulated
// acceleration.
func (b *Body) TotalForce() geom.Vec2 { return b.accum.Scale(b.mass) }

// SetPosition places the body at p.
func (b *Body) SetPosition(p geom.Vec2) { b.pos = p }

// SetVelocity sets the body's velocity.
func (b *Body) SetVelocity(v geom.Vec2) { b.vel = v }

// SetMass replaces the body's mass, under the same validation as
// NewBody.
func (b *Body) SetMass(m float64) error {
	if !validMass(m) {
		return fmt.Errorf("%w: got %v", ErrInvalidMass, m)
	}
	b.mass = m
	return nil
}
