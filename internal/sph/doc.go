// Package sph implements a 2D double-density-relaxation SPH fluid.
//
// A [Simulation] owns a slice of [Particle] records and advances them one
// frame per [Simulation.Step]. Each step runs five passes, each a full
// barrier over all particles:
//
//   - per-particle update: integrate, rebuild velocity from displacement,
//     clamp, contain against the circular boundary
//   - neighbor and density pass
//   - pressure derivation
//   - pressure force pass
//   - viscosity pass
//
// Velocity is never integrated on its own: it is recomputed every frame as
// position minus previous position, so corrections applied late in a step
// only show up in velocity on the next one.
//
// # Example
//
//	params := sph.DefaultParams()
//	s := sph.New(params, particles)
//	for i := 0; i < 100; i++ {
//	    s.Step(false)
//	}
//	pts := s.VisualPositions(nil)
//
// # Thread Safety
//
// A Simulation is not safe for concurrent use. Readers may look at
// particles only between calls to Step.
package sph
