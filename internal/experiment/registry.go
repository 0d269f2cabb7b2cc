package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/integrators"
	"github.com/san-kum/nstar/internal/physics"
)

// Registry maps CLI and config names to constructors. Integrators keep
// scratch state, so every lookup builds a fresh one.
type Registry struct {
	integrators map[string]func() dynamo.Integrator
	models      map[string]physics.Model
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		models:      make(map[string]physics.Model),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["midpoint"] = func() dynamo.Integrator { return integrators.NewMidpoint() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	for _, m := range physics.Models() {
		r.models[m.String()] = m
	}

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

// IntegratorFactory returns the constructor itself, for callers that need
// one integrator per goroutine.
func (r *Registry) IntegratorFactory(name string) (func() dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn, nil
}

func (r *Registry) GetModel(name string) (physics.Model, error) {
	if m, ok := r.models[name]; ok {
		return m, nil
	}
	return physics.ParseModel(name)
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
