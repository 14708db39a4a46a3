package physics

import "errors"

// Sentinel errors reported by body and world operations.
var (
	// ErrInvalidMass rejects masses that are not finite and positive.
	ErrInvalidMass = errors.New("physics: mass must be finite and positive")

	// ErrUnknownBody reports a handle that resolves to no live body.
	ErrUnknownBody = errors.New("physics: no body for handle")
)
