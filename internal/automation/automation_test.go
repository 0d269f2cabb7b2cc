package automation

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/nstar/internal/config"
	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/experiment"
	"github.com/san-kum/nstar/internal/physics"
	"github.com/san-kum/nstar/internal/star"
)

const scenarioYAML = `name: models
description: both gradients at the physical neutron mass
steps:
  - name: newtonian
    model: classical
  - name: tov
    model: relativistic
    presets: [neutron/physical]
  - name: short grid
    model: relativistic
    r_max: 1
    points: 101
`

func writeScenario(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "models" || len(sc.Steps) != 3 {
		t.Errorf("unexpected scenario: %+v", sc)
	}
	if sc.Steps[2].RMax != 1 || sc.Steps[2].Points != 101 {
		t.Errorf("grid overrides not parsed: %+v", sc.Steps[2])
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	var seen []int
	results, err := RunScenario(context.Background(), sc, config.DefaultConfig(), experiment.NewRegistry(),
		func(i int, _ StepResult) { seen = append(seen, i) })
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if len(results) != 3 || len(seen) != 3 {
		t.Fatalf("expected 3 results and callbacks, got %d/%d", len(results), len(seen))
	}

	tests := []struct {
		model  physics.Model
		mass   float64
		status dynamo.Status
	}{
		{physics.ModelClassical, 10.054740480168345, dynamo.Converged},
		{physics.ModelRelativistic, 1.8771758575071826, dynamo.Converged},
	}
	for i, tt := range tests {
		res := results[i].Result
		if res.Model != tt.model || res.Status != tt.status {
			t.Errorf("step %d: model %v status %v", i, res.Model, res.Status)
		}
		if math.Abs(res.SurfaceMassSolar-tt.mass) > 1e-8*tt.mass {
			t.Errorf("step %d: mass %v, want %v", i, res.SurfaceMassSolar, tt.mass)
		}
	}
	if results[2].Result.Status != dynamo.Truncated {
		t.Errorf("short grid should truncate, got %v", results[2].Result.Status)
	}
}

func TestRunScenarioErrors(t *testing.T) {
	base := config.DefaultConfig()
	reg := experiment.NewRegistry()

	tests := []struct {
		name string
		step ScenarioStep
	}{
		{"unknown preset", ScenarioStep{Presets: []string{"neutron/strange"}}},
		{"unknown model", ScenarioStep{Model: "rotating"}},
		{"unknown integrator", ScenarioStep{Integrator: "leapfrog"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &Scenario{Steps: []ScenarioStep{tt.step}}
			results, err := RunScenario(context.Background(), sc, base, reg, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if len(results) != 0 {
				t.Errorf("expected no results, got %d", len(results))
			}
		})
	}

	if base.Model != config.DefaultModel {
		t.Error("steps must not modify the base config")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	cfg := MonteCarloConfig{
		Base:      star.DefaultOptions(star.PhysicalNeutronMass),
		NumTrials: 3,
		Workers:   2,
		Seed:      1,
	}

	results, err := RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}

	stats := MonteCarloStats(results)
	if stats.Converged != 3 {
		t.Fatalf("expected 3 converged trials, got %+v", stats)
	}
	if math.Abs(stats.MeanMass-1.8771758575071826) > 1e-8 || stats.StdMass > 1e-6 {
		t.Errorf("unperturbed trials should agree: %+v", stats)
	}
}

func TestRunMonteCarloSeeded(t *testing.T) {
	cfg := MonteCarloConfig{
		Base:          star.DefaultOptions(star.PhysicalNeutronMass),
		MassSpread:    0.05,
		DensitySpread: 0.05,
		NumTrials:     4,
		Seed:          7,
	}

	a, err := RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a {
		if a[i].ParticleMass != b[i].ParticleMass || a[i].Point.MassSolar != b[i].Point.MassSolar {
			t.Errorf("trial %d not reproducible", i)
		}
		if math.Abs(a[i].ParticleMass/star.PhysicalNeutronMass-1) > 0.05 {
			t.Errorf("trial %d mass %v outside spread", i, a[i].ParticleMass)
		}
	}
}

func TestRunMonteCarloInvalid(t *testing.T) {
	base := star.DefaultOptions(star.PhysicalNeutronMass)
	for _, cfg := range []MonteCarloConfig{
		{Base: base, NumTrials: 0},
		{Base: base, NumTrials: 1, MassSpread: 1},
		{Base: base, NumTrials: 1, DensitySpread: -0.1},
	} {
		if _, err := RunMonteCarlo(context.Background(), cfg); !errors.Is(err, dynamo.ErrInvalidInput) {
			t.Errorf("%+v: expected ErrInvalidInput, got %v", cfg, err)
		}
	}
}

func TestMonteCarloStats(t *testing.T) {
	results := []MonteCarloResult{
		{Point: star.Point{MassSolar: 1, RadiusKm: 10, Status: dynamo.Converged}},
		{Point: star.Point{MassSolar: 3, RadiusKm: 12, Status: dynamo.Converged}},
		{Point: star.Point{MassSolar: 9, Status: dynamo.Truncated}},
		{Point: star.Point{Err: dynamo.ErrInvalidState}},
	}

	s := MonteCarloStats(results)
	if s.Converged != 2 || s.Truncated != 1 || s.Failed != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.MeanMass != 2 || s.MeanRadius != 11 {
		t.Errorf("unexpected means: %+v", s)
	}
	if math.Abs(s.StdMass-1) > 1e-12 || math.Abs(s.StdRadius-1) > 1e-12 {
		t.Errorf("unexpected spread: %+v", s)
	}
}
