// Package physics provides the hydrostatic-equilibrium equations of a
// spherically symmetric, non-rotating star.
//
// The star is described by the enclosed mass m(r) and pressure p(r), both in
// dimensionless units. Mass continuity is shared by every model; the
// pressure gradient is a [PressureGradient] strategy:
//
//   - [Classical]: Newtonian hydrostatic equilibrium
//   - [Relativistic]: Tolman-Oppenheimer-Volkoff equation
//
// [Star] combines an equation of state with one strategy and implements
// [dynamo.System] so it can be driven by any fixed-step integrator:
//
//	sys := physics.NewStar(eos.Default(), physics.Relativistic{}, rhoS, mn)
//	dx := sys.Derive(dynamo.State{m, p}, r)
package physics
