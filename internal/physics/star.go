package physics

import (
	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/eos"
)

// Star is the structure system with state {m, p}.
type Star struct {
	EOS      eos.Polytrope
	Gradient PressureGradient
	RhoS     float64
	Mn       float64
}

func NewStar(e eos.Polytrope, g PressureGradient, rhoS, mn float64) *Star {
	return &Star{EOS: e, Gradient: g, RhoS: rhoS, Mn: mn}
}

func (s *Star) StateDim() int { return 2 }

// Density is the energy density at pressure p. Negative pressure only
// occurs in RK4 stages that overshoot the surface and is treated as vacuum.
func (s *Star) Density(p float64) float64 {
	if p < 0 {
		return 0
	}
	return s.EOS.EnergyDensity(p, s.RhoS, s.Mn)
}

func (s *Star) DMDR(r, m, p float64) float64 {
	return DMDR(r, s.Density(p))
}

func (s *Star) DPDR(r, m, p float64) float64 {
	return s.Gradient.DPDR(r, m, p, s.Density(p))
}

// Derive evaluates the equation of state once and feeds both gradients.
func (s *Star) Derive(x dynamo.State, r float64) dynamo.State {
	m, p := x[0], x[1]
	rho := s.Density(p)
	return dynamo.State{DMDR(r, rho), s.Gradient.DPDR(r, m, p, rho)}
}

func (s *Star) GetParams() map[string]float64 {
	return map[string]float64{
		"central_density": s.RhoS,
		"particle_mass":   s.Mn,
		"K":               s.EOS.K,
		"gamma":           s.EOS.Gamma,
		"A":               s.EOS.A,
	}
}
