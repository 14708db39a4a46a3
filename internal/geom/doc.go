// Package geom provides the planar math used throughout gravlab.
//
//   - [Vec2]: float64 vector with the usual arithmetic
//   - [Frame]: node in a tree of affine coordinate frames
//
// A frame composes a per-axis scale, a rotation and a translation, in
// that order. [Frame.ToGlobal] carries a point from a leaf frame out to
// the root; [Frame.ToLocal] is its exact inverse. Attachment is
// validated up front so that a frame can never become its own ancestor
// and every transform stays invertible.
package geom
