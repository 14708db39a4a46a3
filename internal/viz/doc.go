// Package viz provides terminal-based visualization for gravity worlds.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view that steps a world and renders it at 60 fps
//   - [Canvas]: braille-based pixel canvas for high-fidelity rendering
//
// The camera is a coordinate frame, so the view can track a body and
// rotate with its velocity. Predicted trajectories are drawn as
// polylines ahead of each body.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to the scenario's initial state
//	P     - Toggle predicted paths
//	F     - Cycle the followed body
//	Tab   - Toggle velocity alignment
//	+/-   - Zoom in/out
//	Arrows - Pan the free camera
//	Q     - Quit
package viz
