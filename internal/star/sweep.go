package star

import (
	"context"

	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/physics"
)

// Point is one entry of a mass-radius curve. Err holds the failure of that
// single run, if any; the other fields are then zero.
type Point struct {
	Model          physics.Model
	ParticleMass   float64
	CentralDensity float64
	MassSolar      float64
	RadiusKm       float64
	Status         dynamo.Status
	Err            error
}

func pointFrom(opts Options, res *Result, err error) Point {
	p := Point{
		Model:          opts.Model,
		ParticleMass:   opts.ParticleMass,
		CentralDensity: opts.Constants.CentralDensity,
		Err:            err,
	}
	if err == nil {
		p.MassSolar = res.SurfaceMassSolar
		p.RadiusKm = res.SurfaceRadiusKm
		p.Status = res.Status
	}
	return p
}

// Sweep runs one independent calculation per particle mass, at most
// workers at a time, and returns the points in input order. Failures of
// individual runs are recorded in Point.Err; only context cancellation
// aborts the sweep. base.Observers are shared by every run and must be safe
// for concurrent use.
func Sweep(ctx context.Context, base Options, masses []float64, workers int) ([]Point, error) {
	return sweep(ctx, len(masses), workers, func(i int) Options {
		o := base
		o.ParticleMass = masses[i]
		return o
	})
}

// SweepDensities is Sweep over central densities at fixed particle mass.
func SweepDensities(ctx context.Context, base Options, densities []float64, workers int) ([]Point, error) {
	return sweep(ctx, len(densities), workers, func(i int) Options {
		o := base
		o.Constants.CentralDensity = densities[i]
		return o
	})
}

// SweepOptions runs one calculation per entry of runs, for sweeps that
// vary more than one parameter.
func SweepOptions(ctx context.Context, runs []Options, workers int) ([]Point, error) {
	return sweep(ctx, len(runs), workers, func(i int) Options { return runs[i] })
}

func sweep(ctx context.Context, n, workers int, at func(i int) Options) ([]Point, error) {
	points := make([]Point, n)
	err := dynamo.ParallelFor(ctx, n, workers, func(ctx context.Context, i int) error {
		opts := at(i)
		res, err := Run(ctx, opts)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		points[i] = pointFrom(opts, res, err)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
