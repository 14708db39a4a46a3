// Package physics implements gravlab's point-mass world.
//
//   - [Body]: point mass with a per-tick acceleration accumulator
//   - [World]: ordered bodies behind stable handles, stepped as a unit
//   - [Gravity]: pairwise G/r² attraction with a minimum separation
//   - [Predictor]: forward trajectory sampling on a cloned world
//
// Integration is semi-implicit Euler: each step folds the accumulated
// acceleration into the velocity, then moves the position with the new
// velocity. Forces are applied between steps by force laws or hosts;
// the world itself exerts none.
//
// # Units
//
// The package fixes no unit system. Positions, velocities and G carry
// whatever units the caller chooses, as long as they are consistent.
//
// # Example
//
//	w := physics.NewWorld()
//	a, _ := physics.NewBody(geom.V(0, 0), geom.V(0, 0), 10)
//	ha, _ := w.AddBody(a)
//	law := physics.NewGravity(6.67e7)
//	for i := 0; i < 1000; i++ {
//	    law.Apply(w)
//	    w.Step(1.0 / 60)
//	}
//	b, _ := w.Body(ha)
//	fmt.Println(b.Position())
package physics
