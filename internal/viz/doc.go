// Package viz provides the terminal view of a running fluid.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one simulation with a stats panel
//   - [Canvas]: Braille-based pixel canvas, with [Viewport] mapping world coordinates
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	A     - Add a particle at the top of the container
//	X     - Remove the last particle
//	B     - Toggle the dam flag passed to each step
//	R     - Reset to the initial configuration
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// Recordings are written to sphfluid.gif in the current directory when
// recording is toggled off or the view quits.
package viz
