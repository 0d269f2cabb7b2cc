package star

import (
	"fmt"
	"math"

	"github.com/san-kum/nstar/internal/dynamo"
)

const (
	// DefaultHc is hbar*c in MeV fm.
	DefaultHc = 197.327
	// DefaultGravityFactor times Hc gives G in MeV^-1 fm^3 kg^-1.
	DefaultGravityFactor = 6.67259e-45
	// DefaultSolarMass is the solar mass in MeV.
	DefaultSolarMass = 1.1157467e60
	// DefaultCentralDensity is the central energy density in MeV/fm^3.
	DefaultCentralDensity = 1665.3
	// PhysicalNeutronMass is the neutron rest mass in MeV.
	PhysicalNeutronMass = 939.565

	// DefaultSurfaceTolerance is the dimensionless pressure treated as the
	// stellar surface.
	DefaultSurfaceTolerance = 9e-5

	fmToKm = 1e-18
)

// Constants are the physical inputs of a run. They are copied into every
// calculation and never mutated.
type Constants struct {
	Hc             float64
	GravityFactor  float64
	SolarMass      float64
	CentralDensity float64
}

func DefaultConstants() Constants {
	return Constants{
		Hc:             DefaultHc,
		GravityFactor:  DefaultGravityFactor,
		SolarMass:      DefaultSolarMass,
		CentralDensity: DefaultCentralDensity,
	}
}

// G is the gravitational constant in natural units.
func (c Constants) G() float64 {
	return c.Hc * c.GravityFactor
}

func (c Constants) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %s must be positive and finite, got %g", dynamo.ErrInvalidInput, name, v)
		}
		return nil
	}
	if err := check("central density", c.CentralDensity); err != nil {
		return err
	}
	if err := check("hc", c.Hc); err != nil {
		return err
	}
	if err := check("gravity factor", c.GravityFactor); err != nil {
		return err
	}
	return check("solar mass", c.SolarMass)
}

// Scale converts dimensionless mass and radius to physical units.
type Scale struct {
	M0        float64
	R0        float64
	SolarMass float64
}

// NewScale derives M0 = (4 pi G^3 rhoS)^(-1/2) and R0 = G M0.
func NewScale(c Constants) Scale {
	g := c.G()
	m0 := math.Pow(4*math.Pi*g*g*g*c.CentralDensity, -0.5)
	return Scale{M0: m0, R0: g * m0, SolarMass: c.SolarMass}
}

func (s Scale) MassSolar(m float64) float64 {
	return m * s.M0 / s.SolarMass
}

func (s Scale) RadiusKm(r float64) float64 {
	return r * s.R0 * fmToKm
}
