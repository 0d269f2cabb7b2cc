package physics

import (
	"fmt"
	"strings"

	"github.com/san-kum/nstar/internal/dynamo"
)

// Softening keeps the pressure gradient finite at r = 0.
const Softening = 1e-20

// PressureGradient returns dp/dr given radius, enclosed mass, pressure and
// the energy density at that pressure.
type PressureGradient interface {
	DPDR(r, m, p, rho float64) float64
	Name() string
}

// DMDR is the mass-continuity equation shared by both models.
func DMDR(r, rho float64) float64 {
	return rho * r * r
}

type Classical struct{}

func (Classical) DPDR(r, m, p, rho float64) float64 {
	return -m * rho / (r*r + Softening)
}

func (Classical) Name() string { return "classical" }

type Relativistic struct{}

func (Relativistic) DPDR(r, m, p, rho float64) float64 {
	return -(p + rho) * (m + p*r*r*r) / (r*r - 2*m*r + Softening)
}

func (Relativistic) Name() string { return "relativistic" }

// Model selects which pressure gradient a run uses.
type Model int

const (
	ModelClassical Model = iota
	ModelRelativistic
)

func (m Model) String() string {
	switch m {
	case ModelClassical:
		return "classical"
	case ModelRelativistic:
		return "relativistic"
	default:
		return fmt.Sprintf("model(%d)", int(m))
	}
}

// Gradient resolves the model into its strategy.
func (m Model) Gradient() PressureGradient {
	if m == ModelClassical {
		return Classical{}
	}
	return Relativistic{}
}

func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classical", "newtonian", "0":
		return ModelClassical, nil
	case "relativistic", "tov", "1":
		return ModelRelativistic, nil
	default:
		return 0, fmt.Errorf("%w: unknown model %q", dynamo.ErrInvalidInput, s)
	}
}

func (m Model) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Model) UnmarshalText(text []byte) error {
	parsed, err := ParseModel(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Models lists every supported model.
func Models() []Model {
	return []Model{ModelClassical, ModelRelativistic}
}
