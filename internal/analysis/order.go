package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/nstar/internal/dynamo"
)

// ObservedOrder estimates p in err ~ h^p from values computed with steps
// h, h/2 and h/4. It returns NaN when the differences vanish.
func ObservedOrder(coarse, mid, fine float64) float64 {
	num := math.Abs(coarse - mid)
	den := math.Abs(mid - fine)
	if num == 0 || den == 0 {
		return math.NaN()
	}
	return math.Log2(num / den)
}

type Study struct {
	Grids  [3]dynamo.Grid
	Finals [3]dynamo.State
	Orders []float64
}

// OrderStudy integrates sys across the whole grid three times, halving the
// step each time, and compares the states at the grid end. No stop
// condition is applied so every run reaches the same abscissa.
func OrderStudy[I dynamo.Integrator](ctx context.Context, sys dynamo.System, newIntegrator func() I, x0 dynamo.State, grid dynamo.Grid) (*Study, error) {
	study := &Study{}
	for k := 0; k < 3; k++ {
		g := grid.Refine(1 << k)
		res, err := dynamo.New(sys, newIntegrator()).Run(ctx, x0, dynamo.Config{Grid: g, ValidateState: true})
		if err != nil {
			return nil, fmt.Errorf("refinement %d: %w", k, err)
		}
		study.Grids[k] = g
		study.Finals[k] = res.Final()
	}

	study.Orders = make([]float64, len(x0))
	for j := range x0 {
		study.Orders[j] = ObservedOrder(study.Finals[0][j], study.Finals[1][j], study.Finals[2][j])
	}
	return study, nil
}
