package dynamo

import "errors"

// Domain errors for integration runs.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidGrid indicates a grid that cannot be walked.
	ErrInvalidGrid = errors.New("dynamo: invalid grid")

	// ErrInvalidInput indicates physical parameters rejected before any
	// computation begins.
	ErrInvalidInput = errors.New("dynamo: invalid input")

	// ErrNonConvergence indicates an iterative solver exhausted its
	// iteration budget without reaching tolerance.
	ErrNonConvergence = errors.New("dynamo: solver did not converge")

	// ErrIntegrationTruncated indicates the grid was exhausted before the
	// stop condition fired. Not fatal: the trajectory is still usable.
	ErrIntegrationTruncated = errors.New("dynamo: grid exhausted before stop condition")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with integration context.
type SimulationError struct {
	Step    int
	Radius  float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
