package star

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/eos"
	"github.com/san-kum/nstar/internal/integrators"
	"github.com/san-kum/nstar/internal/optim"
	"github.com/san-kum/nstar/internal/physics"
)

type Options struct {
	Model            physics.Model
	ParticleMass     float64
	Constants        Constants
	EOS              eos.Polytrope
	Grid             dynamo.Grid
	SurfaceTolerance float64
	Newton           optim.NewtonOptions

	// NewIntegrator builds the stepper for one run. Nil means RK4.
	NewIntegrator func() dynamo.Integrator
	// Observers are attached to the simulator for every run.
	Observers []dynamo.Observer
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

func DefaultOptions(particleMass float64) Options {
	return Options{
		Model:            physics.ModelRelativistic,
		ParticleMass:     particleMass,
		Constants:        DefaultConstants(),
		EOS:              eos.Default(),
		Grid:             dynamo.DefaultGrid(),
		SurfaceTolerance: DefaultSurfaceTolerance,
		Newton:           optim.DefaultNewtonOptions(),
	}
}

// Validate rejects inputs before any computation begins.
func (o Options) Validate() error {
	if math.IsNaN(o.ParticleMass) || math.IsInf(o.ParticleMass, 0) || o.ParticleMass < 0 {
		return fmt.Errorf("%w: particle mass must be non-negative and finite, got %g", dynamo.ErrInvalidInput, o.ParticleMass)
	}
	if err := o.Constants.Validate(); err != nil {
		return err
	}
	if o.EOS.K <= 0 || o.EOS.Gamma <= 0 || o.EOS.A < 0 {
		return fmt.Errorf("%w: equation of state %+v", dynamo.ErrInvalidInput, o.EOS)
	}
	if math.IsNaN(o.SurfaceTolerance) || o.SurfaceTolerance <= 0 {
		return fmt.Errorf("%w: surface tolerance must be positive, got %g", dynamo.ErrInvalidInput, o.SurfaceTolerance)
	}
	if o.Model != physics.ModelClassical && o.Model != physics.ModelRelativistic {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidInput, o.Model)
	}
	if err := o.Grid.Validate(); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidInput, err)
	}
	return nil
}

func (o Options) integrator() dynamo.Integrator {
	if o.NewIntegrator != nil {
		return o.NewIntegrator()
	}
	return integrators.NewRK4()
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}
