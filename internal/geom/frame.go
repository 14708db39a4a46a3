package geom

import (
	"errors"
	"fmt"
	"math"
)

// Errors reported by frame construction and attachment.
var (
	ErrInvalidScale = errors.New("geom: frame scale must be finite and non-zero")
	ErrFrameCycle   = errors.New("geom: frame cannot be its own ancestor")
)

// Frame is a node in a tree of affine coordinate frames. A frame maps
// its local coordinates into its parent's by scaling per axis, then
// rotating, then translating. A nil parent means the frame's parent
// coordinates are global.
//
// A frame does not own its parent; keeping the parent alive is the
// caller's business. Frames are not safe for concurrent mutation.
type Frame struct {
	parent *Frame
	pos    Vec2
	rot    float64
	scale  Vec2
}

// NewFrame returns a frame attached under parent, or a root frame when
// parent is nil. Scale components must be finite and non-zero so the
// transform stays invertible.
func NewFrame(parent *Frame, pos Vec2, rot float64, scale Vec2) (*Frame, error) {
	if err := checkScale(scale); err != nil {
		return nil, err
	}
	return &Frame{parent: parent, pos: pos, rot: rot, scale: scale}, nil
}

// NewRootFrame returns an identity frame with no parent.
func NewRootFrame() *Frame {
	return &Frame{scale: Vec2{1, 1}}
}

func checkScale(s Vec2) error {
	bad := func(c float64) bool { return c == 0 || math.IsNaN(c) || math.IsInf(c, 0) }
	if bad(s.X) || bad(s.Y) {
		return fmt.Errorf("%w: got (%v, %v)", ErrInvalidScale, s.X, s.Y)
	}
	return nil
}

// ToGlobal converts a point from f's local coordinates to global
// coordinates, applying scale, rotation and translation at every level
// from f up to the root.
func (f *Frame) ToGlobal(p Vec2) Vec2 {
	g := Vec2{p.X * f.scale.X, p.Y * f.scale.Y}.Rotate(f.rot).Add(f.pos)
	if f.parent != nil {
		return f.parent.ToGlobal(g)
	}
	return g
}

// ToLocal converts a global point into f's local coordinates. It is
// the exact inverse of ToGlobal: the ancestor chain is unwound from
// the root down, then translation, rotation and scale are undone in
// reverse order.
func (f *Frame) ToLocal(p Vec2) Vec2 {
	if f.parent != nil {
		p = f.parent.ToLocal(p)
	}
	p = p.Sub(f.pos).Rotate(-f.rot)
	return Vec2{p.X / f.scale.X, p.Y / f.scale.Y}
}

// SetParent reattaches f under p, or detaches it when p is nil. The
// attachment fails with ErrFrameCycle when f already appears in p's
// ancestor chain.
func (f *Frame) SetParent(p *Frame) error {
	for a := p; a != nil; a = a.parent {
		if a == f {
			return ErrFrameCycle
		}
	}
	f.parent = p
	return nil
}

// SetPosition moves the frame's origin within its parent.
func (f *Frame) SetPosition(p Vec2) { f.pos = p }

// SetRotation sets the frame's rotation in radians.
func (f *Frame) SetRotation(rad float64) { f.rot = rad }

// SetScale replaces the per-axis scale, under the same validation as
// NewFrame.
func (f *Frame) SetScale(s Vec2) error {
	if err := checkScale(s); err != nil {
		return err
	}
	f.scale = s
	return nil
}

// Parent returns the frame f is attached to, or nil for a root.
func (f *Frame) Parent() *Frame { return f.parent }

// Position returns the frame origin in parent coordinates.
func (f *Frame) Position() Vec2 { return f.pos }

// Rotation returns the frame rotation in radians.
func (f *Frame) Rotation() float64 { return f.rot }

// Scale returns the per-axis scale factors.
func (f *Frame) Scale() Vec2 { return f.scale }
