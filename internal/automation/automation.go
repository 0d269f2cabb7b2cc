package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nstar/internal/config"
	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/experiment"
	"github.com/san-kum/nstar/internal/star"
)

// Scenario is a scripted sequence of star runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides the base config for one run. Zero values keep the
// base setting.
type ScenarioStep struct {
	Name           string   `yaml:"name"`
	Model          string   `yaml:"model"`
	Integrator     string   `yaml:"integrator"`
	ParticleMass   *float64 `yaml:"particle_mass"`
	CentralDensity float64  `yaml:"central_density"`
	Points         int      `yaml:"points"`
	RMax           float64  `yaml:"r_max"`
	Presets        []string `yaml:"presets"`
}

type StepResult struct {
	Step       ScenarioStep
	Integrator string
	Options    star.Options
	Result     *star.Result
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

func (s ScenarioStep) apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	for _, ref := range s.Presets {
		group, name, _ := strings.Cut(ref, "/")
		p, ok := config.GetPreset(group, name)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", ref)
		}
		p.Apply(&cfg)
	}
	if s.Model != "" {
		cfg.Model = s.Model
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.ParticleMass != nil {
		cfg.ParticleMass = *s.ParticleMass
	}
	if s.CentralDensity != 0 {
		cfg.Constants.CentralDensity = s.CentralDensity
	}
	if s.Points != 0 {
		cfg.Grid.Points = s.Points
	}
	if s.RMax != 0 {
		cfg.Grid.RMax = s.RMax
	}
	return &cfg, nil
}

func options(cfg *config.Config, registry *experiment.Registry) (star.Options, error) {
	opts, err := cfg.Options()
	if err != nil {
		return star.Options{}, err
	}
	factory, err := registry.IntegratorFactory(cfg.Integrator)
	if err != nil {
		return star.Options{}, err
	}
	opts.NewIntegrator = factory
	return opts, nil
}

// RunScenario executes the steps in order on top of base. onStep, if set,
// is called after each successful step.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, registry *experiment.Registry, onStep func(i int, r StepResult)) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.apply(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		opts, err := options(cfg, registry)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res, err := star.Run(ctx, opts)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		r := StepResult{Step: step, Integrator: cfg.Integrator, Options: opts, Result: res}
		results = append(results, r)
		if onStep != nil {
			onStep(i, r)
		}
	}

	return results, nil
}

// MonteCarloConfig perturbs particle mass and central density by up to the
// given relative amounts.
type MonteCarloConfig struct {
	Base          star.Options
	MassSpread    float64
	DensitySpread float64
	NumTrials     int
	Workers       int
	Seed          int64
}

type MonteCarloResult struct {
	TrialID        int
	ParticleMass   float64
	CentralDensity float64
	Point          star.Point
}

// RunMonteCarlo draws every trial's parameters up front, so results for a
// given seed do not depend on scheduling.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive", dynamo.ErrInvalidInput)
	}
	if cfg.MassSpread < 0 || cfg.MassSpread >= 1 || cfg.DensitySpread < 0 || cfg.DensitySpread >= 1 {
		return nil, fmt.Errorf("%w: spreads must lie in [0, 1)", dynamo.ErrInvalidInput)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, cfg.NumTrials)
	for trial := range results {
		results[trial] = MonteCarloResult{
			TrialID:        trial,
			ParticleMass:   cfg.Base.ParticleMass * (1 + (rng.Float64()-0.5)*2*cfg.MassSpread),
			CentralDensity: cfg.Base.Constants.CentralDensity * (1 + (rng.Float64()-0.5)*2*cfg.DensitySpread),
		}
	}

	runs := make([]star.Options, cfg.NumTrials)
	for i := range runs {
		runs[i] = cfg.Base
		runs[i].ParticleMass = results[i].ParticleMass
		runs[i].Constants.CentralDensity = results[i].CentralDensity
	}
	points, err := star.SweepOptions(ctx, runs, cfg.Workers)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Point = points[i]
	}

	return results, nil
}

// Stats summarises the converged trials.
type Stats struct {
	Converged  int
	Truncated  int
	Failed     int
	MeanMass   float64
	StdMass    float64
	MeanRadius float64
	StdRadius  float64
}

func MonteCarloStats(results []MonteCarloResult) Stats {
	var s Stats
	var sumM, sumM2, sumR, sumR2 float64
	for _, r := range results {
		switch {
		case r.Point.Err != nil:
			s.Failed++
			continue
		case r.Point.Status == dynamo.Truncated:
			s.Truncated++
			continue
		}
		s.Converged++
		sumM += r.Point.MassSolar
		sumM2 += r.Point.MassSolar * r.Point.MassSolar
		sumR += r.Point.RadiusKm
		sumR2 += r.Point.RadiusKm * r.Point.RadiusKm
	}
	if s.Converged == 0 {
		return s
	}
	n := float64(s.Converged)
	s.MeanMass = sumM / n
	s.MeanRadius = sumR / n
	s.StdMass = math.Sqrt(math.Max(sumM2/n-s.MeanMass*s.MeanMass, 0))
	s.StdRadius = math.Sqrt(math.Max(sumR2/n-s.MeanRadius*s.MeanRadius, 0))
	return s
}
