// Package dynamo provides the core primitives for integrating ordinary
// differential equations over a fixed radial grid.
//
// The package defines the fundamental interfaces and types:
//
//   - [State]: vector representing the integrated quantities
//   - [System]: interface for ODE systems (dX/dr = f(X, r))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Grid]: evenly spaced abscissae the integration walks along
//   - [Simulator]: orchestrates a run and applies the stop condition
//
// # Example
//
//	sys := physics.NewStar(eos.Default(), physics.Relativistic{}, rhoS, mn)
//	s := dynamo.New(sys, integrators.NewRK4())
//	result, err := s.Run(ctx, dynamo.State{0, p0}, dynamo.Config{
//	    Grid: dynamo.DefaultGrid(),
//	    Stop: func(x dynamo.State) bool { return x[1] < 9e-5 },
//	})
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe because integrators keep scratch
// buffers. For parallel runs build one Simulator per goroutine, see
// [ParallelFor].
package dynamo
