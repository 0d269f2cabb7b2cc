package dynamo

import (
	"context"
	"fmt"
)

type Simulator struct {
	sys        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(sys System, integrator Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run walks cfg.Grid from its first point, advancing x0 one step per
// interval. After each step the new state is offered to cfg.Stop; the first
// state that satisfies it ends the run with Status Converged. If the grid is
// exhausted first the run ends with Status Truncated. Either way the
// trajectory is cut to the points actually computed.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(x0, cfg); err != nil {
		return nil, err
	}

	n := cfg.Grid.Points
	h := cfg.Grid.Step()
	radii := cfg.Grid.Linspace()
	states := make([]State, n)
	states[0] = x0.Clone()

	for _, m := range s.metrics {
		m.Reset()
	}
	s.notify(0, radii[0], states[0])

	result := &Result{
		Status:    Truncated,
		StopIndex: n - 2,
		Metrics:   make(map[string]float64),
	}

	i := 0
	for ; i < n-1; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		next := s.integrator.Step(s.sys, states[i], radii[i], h)

		if cfg.ValidateState && !next.IsValid() {
			return nil, &SimulationError{Step: i, Radius: radii[i], State: next, Wrapped: ErrInvalidState}
		}

		states[i+1] = next
		result.StepsTaken++

		s.notify(i+1, radii[i+1], next)

		if cfg.Stop != nil && cfg.Stop(next) {
			result.Status = Converged
			break
		}
	}
	if i == n-1 {
		i = n - 2
	}

	result.StopIndex = i
	result.Radii = radii[:i+2]
	result.States = states[:i+2]

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) notify(i int, r float64, x State) {
	for _, m := range s.metrics {
		m.OnStep(i, r, x)
	}
	for _, obs := range s.observers {
		obs.OnStep(i, r, x)
	}
}

func (s *Simulator) validateConfig(x0 State, cfg Config) error {
	if err := cfg.Grid.Validate(); err != nil {
		return err
	}
	if len(x0) != s.sys.StateDim() {
		return fmt.Errorf("%w: state has %d components, system wants %d", ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}
	if cfg.ValidateState && !x0.IsValid() {
		return &SimulationError{Step: 0, Radius: cfg.Grid.Start, State: x0, Wrapped: ErrInvalidState}
	}
	return nil
}
