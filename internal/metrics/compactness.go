package metrics

import "github.com/san-kum/nstar/internal/dynamo"

// Compactness tracks the largest 2m/r seen along a profile. In the
// dimensionless units of the structure equations a value >= 1 means the
// configuration lies inside its own Schwarzschild radius.
type Compactness struct {
	max float64
}

func NewCompactness() *Compactness {
	return &Compactness{}
}

func (c *Compactness) Name() string { return "compactness" }

func (c *Compactness) OnStep(_ int, r float64, x dynamo.State) {
	if r <= 0 {
		return
	}
	if v := 2 * x[0] / r; v > c.max {
		c.max = v
	}
}

func (c *Compactness) Value() float64 { return c.max }

func (c *Compactness) Reset() { c.max = 0 }
