package physics

import (
	"fmt"

	"github.com/gravlab/gravlab/internal/geom"
)

// BodyHandle identifies a body within a World. Handles are issued by
// AddBody, stay valid until their body is removed, and survive both
// removal of other bodies and World.Clone. The zero handle is never
// issued.
type BodyHandle uint64

type slot struct {
	handle BodyHandle
	body   Body
}

// World owns an ordered collection of bodies and a tick counter. It
// integrates bodies when stepped but exerts no forces of its own;
// force laws and hosts act on it between steps.
//
// A World is not safe for concurrent use.
type World struct {
	slots []slot
	tick  uint64
	next  BodyHandle
}

// NewWorld returns an empty world at tick zero.
func NewWorld() *World {
	return &World{}
}

// AddBody appends b and returns its handle. Bodies carrying an invalid
// mass are rejected, so every body inside a world upholds the mass
// invariant.
func (w *World) AddBody(b Body) (BodyHandle, error) {
	if !validMass(b.mass) {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidMass, b.mass)
	}
	w.next++
	w.slots = append(w.slots, slot{handle: w.next, body: b})
	return w.next, nil
}

// RemoveBody deletes the body identified by h, keeping the remaining
// bodies in order. Removing an unknown or already removed handle is a
// no-op.
func (w *World) RemoveBody(h BodyHandle) {
	for i := range w.slots {
		if w.slots[i].handle == h {
			w.slots = append(w.slots[:i], w.slots[i+1:]...)
			return
		}
	}
}

// Body returns a copy of the body identified by h.
func (w *World) Body(h BodyHandle) (Body, bool) {
	if s := w.find(h); s != nil {
		return s.body, true
	}
	return Body{}, false
}

func (w *World) find(h BodyHandle) *slot {
	for i := range w.slots {
		if w.slots[i].handle == h {
			return &w.slots[i]
		}
	}
	return nil
}

// ApplyForce accumulates the force f on the body identified by h.
func (w *World) ApplyForce(h BodyHandle, f geom.Vec2) error {
	s := w.find(h)
	if s == nil {
		return fmt.Errorf("%w: %d", ErrUnknownBody, h)
	}
	s.body.ApplyForce(f)
	return nil
}

// ApplyAcceleration accumulates the acceleration a on the body
// identified by h, bypassing its mass.
func (w *World) ApplyAcceleration(h BodyHandle, a geom.Vec2) error {
	s := w.find(h)
	if s == nil {
		return fmt.Errorf("%w: %d", ErrUnknownBody, h)
	}
	s.body.ApplyAcceleration(a)
	return nil
}

// ApplyUniformAcceleration accumulates the same acceleration on every
// body, the way a constant external field would.
func (w *World) ApplyUniformAcceleration(a geom.Vec2) {
	for i := range w.slots {
		w.slots[i].body.ApplyAcceleration(a)
	}
}

// Step advances the world by dt: the tick counter increments, then
// every body integrates in insertion order. Forces for the tick must
// already be accumulated.
func (w *World) Step(dt float64) {
	w.tick++
	for i := range w.slots {
		w.slots[i].body.Integrate(dt)
	}
}

// Clone returns a deep copy sharing no storage with the original.
// Stepping or mutating one world never shows up in the other. Handles,
// the tick counter and the handle sequence carry over, so a handle
// resolves to the same body in both worlds.
func (w *World) Clone() *World {
	c := &World{
		slots: make([]slot, len(w.slots)),
		tick:  w.tick,
		next:  w.next,
	}
	copy(c.slots, w.slots)
	return c
}

// Bodies returns copies of all bodies in insertion order.
func (w *World) Bodies() []Body {
	out := make([]Body, len(w.slots))
	for i := range w.slots {
		out[i] = w.slots[i].body
	}
	return out
}

// Handles returns the live handles in insertion order.
func (w *World) Handles() []BodyHandle {
	out := make([]BodyHandle, len(w.slots))
	for i := range w.slots {
		out[i] = w.slots[i].handle
	}
	return out
}

// Len returns the number of bodies.
func (w *World) Len() int { return len(w.slots) }

// Tick returns how many steps the world has taken.
func (w *World) Tick() uint64 { return w.tick }

// Momentum returns the total linear momentum of all bodies.
func (w *World) Momentum() geom.Vec2 {
	var p geom.Vec2
	for i := range w.slots {
		b := &w.slots[i].body
		p = p.Add(b.vel.Scale(b.mass))
	}
	return p
}

// AngularMomentum returns the total angular momentum about the origin.
func (w *World) AngularMomentum() float64 {
	var l float64
	for i := range w.slots {
		b := &w.slots[i].body
		l += b.mass * b.pos.Cross(b.vel)
	}
	return l
}
