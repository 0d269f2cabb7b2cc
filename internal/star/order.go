package star

import (
	"context"
	"fmt"

	"github.com/san-kum/nstar/internal/analysis"
	"github.com/san-kum/nstar/internal/dynamo"
)

// DefaultOrderGrid covers the inner part of a default star, well inside
// the surface of either model.
func DefaultOrderGrid() dynamo.Grid {
	return dynamo.Grid{Start: 0, End: 1, Points: 51}
}

// OrderStudy measures the observed convergence order of the configured
// integrator on grid, which should stay inside the star so that no run
// meets the surface.
func OrderStudy(ctx context.Context, opts Options, grid dynamo.Grid) (*analysis.Study, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrInvalidInput, err)
	}

	sys, x0, _, err := setup(opts)
	if err != nil {
		return nil, err
	}
	return analysis.OrderStudy(ctx, sys, opts.integrator, x0, grid)
}
