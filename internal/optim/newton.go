package optim

import (
	"fmt"
	"math"

	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/eos"
)

const (
	DefaultTolerance = 1e-15
	DefaultMaxIter   = 100
	// DefaultInitialGuess is the starting number density, in fm^-3.
	DefaultInitialGuess = 1.0
)

type NewtonOptions struct {
	Tolerance float64
	MaxIter   int
}

func DefaultNewtonOptions() NewtonOptions {
	return NewtonOptions{Tolerance: DefaultTolerance, MaxIter: DefaultMaxIter}
}

type Root struct {
	X          float64
	Iterations int
}

// ConvergenceError reports where Newton-Raphson gave up.
type ConvergenceError struct {
	Iterations int
	Last       float64
	Reason     string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("newton: %s after %d iterations (last iterate %g)", e.Reason, e.Iterations, e.Last)
}

func (e *ConvergenceError) Unwrap() error {
	return dynamo.ErrNonConvergence
}

// Newton finds a root of f starting at x0. It stops once two successive
// iterates differ by less than opts.Tolerance. Exceeding opts.MaxIter, a
// vanishing derivative or a non-finite iterate yield a *ConvergenceError.
func Newton(f, df func(float64) float64, x0 float64, opts NewtonOptions) (Root, error) {
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultMaxIter
	}

	x := x0
	for i := 1; i <= opts.MaxIter; i++ {
		d := df(x)
		if d == 0 {
			return Root{}, &ConvergenceError{Iterations: i, Last: x, Reason: "zero derivative"}
		}

		next := x - f(x)/d
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return Root{}, &ConvergenceError{Iterations: i, Last: x, Reason: "non-finite iterate"}
		}

		if math.Abs(next-x) < opts.Tolerance {
			return Root{X: next, Iterations: i}, nil
		}
		x = next
	}

	return Root{}, &ConvergenceError{Iterations: opts.MaxIter, Last: x, Reason: "iteration limit reached"}
}

// InitialDensity solves A n^Gamma + n mn = rhoS for the central number
// density n.
func InitialDensity(e eos.Polytrope, rhoS, mn float64, opts NewtonOptions) (Root, error) {
	f := func(n float64) float64 { return e.Residual(n, rhoS, mn) }
	df := func(n float64) float64 { return e.ResidualDerivative(n, mn) }
	return Newton(f, df, DefaultInitialGuess, opts)
}
