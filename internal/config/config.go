package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/eos"
	"github.com/san-kum/nstar/internal/experiment"
	"github.com/san-kum/nstar/internal/optim"
	"github.com/san-kum/nstar/internal/star"
)

const (
	DefaultModel      = "relativistic"
	DefaultIntegrator = "rk4"
)

type Config struct {
	Model        string          `yaml:"model"`
	Integrator   string          `yaml:"integrator"`
	ParticleMass float64         `yaml:"particle_mass"`
	Constants    ConstantsConfig `yaml:"constants"`
	EOS          EOSConfig       `yaml:"eos"`
	Grid         GridConfig      `yaml:"grid"`
	Newton       NewtonConfig    `yaml:"newton"`
}

type ConstantsConfig struct {
	Hc             float64 `yaml:"hc"`
	GravityFactor  float64 `yaml:"gravity_factor"`
	SolarMass      float64 `yaml:"solar_mass"`
	CentralDensity float64 `yaml:"central_density"`
}

type EOSConfig struct {
	K     float64 `yaml:"k"`
	Gamma float64 `yaml:"gamma"`
	A     float64 `yaml:"a"`
}

type GridConfig struct {
	RMax             float64 `yaml:"r_max"`
	Points           int     `yaml:"points"`
	SurfaceTolerance float64 `yaml:"surface_tolerance"`
}

type NewtonConfig struct {
	Tolerance float64 `yaml:"tolerance"`
	MaxIter   int     `yaml:"max_iter"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:        DefaultModel,
		Integrator:   DefaultIntegrator,
		ParticleMass: star.PhysicalNeutronMass,
		Constants: ConstantsConfig{
			Hc:             star.DefaultHc,
			GravityFactor:  star.DefaultGravityFactor,
			SolarMass:      star.DefaultSolarMass,
			CentralDensity: star.DefaultCentralDensity,
		},
		EOS: EOSConfig{
			K:     eos.DefaultK,
			Gamma: eos.DefaultGamma,
			A:     eos.DefaultA,
		},
		Grid: GridConfig{
			RMax:             dynamo.DefaultGridEnd,
			Points:           dynamo.DefaultGridPoints,
			SurfaceTolerance: star.DefaultSurfaceTolerance,
		},
		Newton: NewtonConfig{
			Tolerance: optim.DefaultTolerance,
			MaxIter:   optim.DefaultMaxIter,
		},
	}
}

// Load reads a yaml file on top of the defaults, so a file only needs the
// fields it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Options converts the config into run options. The integrator is left to
// the caller, which resolves Integrator through a registry.
func (c *Config) Options() (star.Options, error) {
	model, err := experiment.NewRegistry().GetModel(c.Model)
	if err != nil {
		return star.Options{}, err
	}

	opts := star.DefaultOptions(c.ParticleMass)
	opts.Model = model
	opts.Constants = star.Constants{
		Hc:             c.Constants.Hc,
		GravityFactor:  c.Constants.GravityFactor,
		SolarMass:      c.Constants.SolarMass,
		CentralDensity: c.Constants.CentralDensity,
	}
	opts.EOS = eos.Polytrope{K: c.EOS.K, Gamma: c.EOS.Gamma, A: c.EOS.A}
	opts.Grid = dynamo.Grid{Start: dynamo.DefaultGridStart, End: c.Grid.RMax, Points: c.Grid.Points}
	opts.SurfaceTolerance = c.Grid.SurfaceTolerance
	opts.Newton = optim.NewtonOptions{Tolerance: c.Newton.Tolerance, MaxIter: c.Newton.MaxIter}

	return opts, opts.Validate()
}
