package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the recognised environment overrides. Unset variables leave the
// config untouched.
type Env struct {
	Model          string   `env:"NSTAR_MODEL"`
	Integrator     string   `env:"NSTAR_INTEGRATOR"`
	ParticleMass   *float64 `env:"NSTAR_PARTICLE_MASS"`
	CentralDensity *float64 `env:"NSTAR_CENTRAL_DENSITY"`
	Points         *int     `env:"NSTAR_POINTS"`
	RMax           *float64 `env:"NSTAR_R_MAX"`
	DataDir        string   `env:"NSTAR_DATA_DIR"`
}

// ParseEnv loads overrides from environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Apply copies every set override into cfg.
func (e Env) Apply(cfg *Config) {
	if e.Model != "" {
		cfg.Model = e.Model
	}
	if e.Integrator != "" {
		cfg.Integrator = e.Integrator
	}
	if e.ParticleMass != nil {
		cfg.ParticleMass = *e.ParticleMass
	}
	if e.CentralDensity != nil {
		cfg.Constants.CentralDensity = *e.CentralDensity
	}
	if e.Points != nil {
		cfg.Grid.Points = *e.Points
	}
	if e.RMax != nil {
		cfg.Grid.RMax = *e.RMax
	}
}
