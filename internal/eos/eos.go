// Package eos implements the polytropic equation of state relating the
// dimensionless pressure of neutron matter to its energy density.
package eos

import "math"

// Calibration constants of the neutron-matter fit. Pressure and energy
// density are in MeV/fm^3, number density in fm^-3.
const (
	DefaultK     = 363.44
	DefaultGamma = 2.54
	DefaultA     = 236.0
)

// Polytrope is the relation p = K n^Gamma, e = A n^Gamma + n mn.
// All methods work on dimensionless pressure and energy density, i.e.
// values divided by the central density rhoS.
type Polytrope struct {
	K     float64
	Gamma float64
	A     float64
}

func Default() Polytrope {
	return Polytrope{K: DefaultK, Gamma: DefaultGamma, A: DefaultA}
}

// NumberDensity inverts the pressure relation. Negative p yields NaN.
func (e Polytrope) NumberDensity(p, rhoS float64) float64 {
	return math.Pow(p*rhoS/e.K, 1/e.Gamma)
}

// EnergyDensity returns the dimensionless energy density at dimensionless
// pressure p. It does not validate p; callers must keep it non-negative.
func (e Polytrope) EnergyDensity(p, rhoS, mn float64) float64 {
	n := e.NumberDensity(p, rhoS)
	return (e.A*math.Pow(n, e.Gamma) + n*mn) / rhoS
}

// Pressure is the dimensionless pressure of matter at number density n.
func (e Polytrope) Pressure(n, rhoS float64) float64 {
	return e.K * math.Pow(n, e.Gamma) / rhoS
}

// Residual is zero at the number density whose energy density equals rhoS.
func (e Polytrope) Residual(n, rhoS, mn float64) float64 {
	return e.A*math.Pow(n, e.Gamma) + n*mn - rhoS
}

// ResidualDerivative is d(Residual)/dn.
func (e Polytrope) ResidualDerivative(n, mn float64) float64 {
	return e.A*e.Gamma*math.Pow(n, e.Gamma-1) + mn
}
