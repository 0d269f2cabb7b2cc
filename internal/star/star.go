package star

import (
	"context"
	"fmt"

	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/metrics"
	"github.com/san-kum/nstar/internal/optim"
	"github.com/san-kum/nstar/internal/physics"
)

const (
	stateMass     = 0
	statePressure = 1
)

// Trajectory is the dimensionless profile. The three slices always share
// one length.
type Trajectory struct {
	R []float64
	M []float64
	P []float64
}

func (t Trajectory) Len() int { return len(t.R) }

// Profile is a Trajectory converted to physical units.
type Profile struct {
	RadiusKm    []float64
	MassSolar   []float64
	PressureMeV []float64
}

type Result struct {
	Model            physics.Model
	CentralDensity   float64
	ParticleMass     float64
	SurfaceMassSolar float64
	SurfaceRadiusKm  float64
	Status           dynamo.Status
	StopIndex        int
	InitialDensity   float64
	NewtonIterations int
	Scale            Scale
	Metrics          map[string]float64
	Trajectory       Trajectory
}

// Err reports a truncated run as dynamo.ErrIntegrationTruncated. The result
// itself stays usable.
func (r *Result) Err() error {
	if r.Status == dynamo.Truncated {
		return fmt.Errorf("%w: pressure still %g at r=%g (%.2f km); extend the radial grid",
			dynamo.ErrIntegrationTruncated,
			r.Trajectory.P[len(r.Trajectory.P)-1],
			r.Trajectory.R[len(r.Trajectory.R)-1],
			r.SurfaceRadiusKm)
	}
	return nil
}

func (r *Result) Converged() bool { return r.Status == dynamo.Converged }

// Profile converts the trajectory for plotting.
func (r *Result) Profile() Profile {
	n := r.Trajectory.Len()
	p := Profile{
		RadiusKm:    make([]float64, n),
		MassSolar:   make([]float64, n),
		PressureMeV: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		p.RadiusKm[i] = r.Scale.RadiusKm(r.Trajectory.R[i])
		p.MassSolar[i] = r.Scale.MassSolar(r.Trajectory.M[i])
		p.PressureMeV[i] = r.Trajectory.P[i] * r.CentralDensity
	}
	return p
}

// Run performs one complete structure calculation.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := opts.logger().With("model", opts.Model.String(), "particle_mass", opts.ParticleMass)

	rhoS := opts.Constants.CentralDensity
	sys, x0, root, err := setup(opts)
	if err != nil {
		return nil, err
	}
	log.Debug("initial density solved", "n", root.X, "iterations", root.Iterations, "params", sys.GetParams())

	sim := dynamo.New(sys, opts.integrator())
	for _, m := range metrics.Defaults() {
		sim.AddMetric(m)
	}
	for _, obs := range opts.Observers {
		sim.AddObserver(obs)
	}

	tol := opts.SurfaceTolerance
	cfg := dynamo.Config{
		Grid:          opts.Grid,
		Stop:          func(x dynamo.State) bool { return x[statePressure] < tol },
		ValidateState: true,
	}

	run, err := sim.Run(ctx, x0, cfg)
	if err != nil {
		return nil, fmt.Errorf("integrate: %w", err)
	}

	scale := NewScale(opts.Constants)
	final := run.Final()
	res := &Result{
		Model:            opts.Model,
		CentralDensity:   rhoS,
		ParticleMass:     opts.ParticleMass,
		SurfaceMassSolar: scale.MassSolar(final[stateMass]),
		SurfaceRadiusKm:  scale.RadiusKm(run.FinalRadius()),
		Status:           run.Status,
		StopIndex:        run.StopIndex,
		InitialDensity:   root.X,
		NewtonIterations: root.Iterations,
		Scale:            scale,
		Metrics:          run.Metrics,
		Trajectory: Trajectory{
			R: run.Radii,
			M: run.Component(stateMass),
			P: run.Component(statePressure),
		},
	}

	log.Debug("integration finished",
		"status", res.Status.String(),
		"stop_index", res.StopIndex,
		"mass_solar", res.SurfaceMassSolar,
		"radius_km", res.SurfaceRadiusKm)
	if !res.Converged() {
		log.Warn("pressure did not reach surface tolerance", "r_max", opts.Grid.End, "tolerance", tol)
	}

	return res, nil
}

// setup solves the central number density and builds the system and its
// starting state {m=0, p=p(n_i)}.
func setup(opts Options) (*physics.Star, dynamo.State, optim.Root, error) {
	rhoS := opts.Constants.CentralDensity
	root, err := optim.InitialDensity(opts.EOS, rhoS, opts.ParticleMass, opts.Newton)
	if err != nil {
		return nil, nil, optim.Root{}, fmt.Errorf("initial density: %w", err)
	}
	sys := physics.NewStar(opts.EOS, opts.Model.Gradient(), rhoS, opts.ParticleMass)
	x0 := dynamo.State{stateMass: 0, statePressure: opts.EOS.Pressure(root.X, rhoS)}
	return sys, x0, root, nil
}
