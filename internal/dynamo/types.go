package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an ODE dX/dr = f(X, r) in a single independent variable.
type System interface {
	Derive(x State, r float64) State
	StateDim() int
}

type Integrator interface {
	Step(sys System, x State, r float64, h float64) State
}

type Observer interface {
	OnStep(i int, r float64, x State)
}

// Metric is an Observer that condenses a run into one number.
type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}

// StopFunc reports whether the freshly computed state terminates the run.
type StopFunc func(x State) bool

// Status records how a run ended.
type Status int

const (
	// Converged means the stop condition fired before the grid ran out.
	Converged Status = iota
	// Truncated means every grid point was consumed without the stop
	// condition firing.
	Truncated
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case Truncated:
		return "truncated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

type Config struct {
	Grid          Grid
	Stop          StopFunc
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Grid:          DefaultGrid(),
		ValidateState: true,
	}
}

// Result holds the trajectory of a run. Radii and States always have the
// same length; entry i is written exactly once.
type Result struct {
	Radii      []float64
	States     []State
	StepsTaken int
	StopIndex  int
	Status     Status
	Metrics    map[string]float64
}

// Component extracts the k-th coordinate of every state.
func (r *Result) Component(k int) []float64 {
	out := make([]float64, len(r.States))
	for i, s := range r.States {
		out[i] = s[k]
	}
	return out
}

func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

func (r *Result) FinalRadius() float64 {
	if len(r.Radii) == 0 {
		return 0
	}
	return r.Radii[len(r.Radii)-1]
}
