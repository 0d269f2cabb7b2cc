package metrics

import "github.com/san-kum/nstar/internal/dynamo"

// MeanDensity is 3m/r^3 at the last observed point, the average energy
// density enclosed in units of the central density.
type MeanDensity struct {
	r, m float64
}

func NewMeanDensity() *MeanDensity {
	return &MeanDensity{}
}

func (d *MeanDensity) Name() string { return "mean_density" }

func (d *MeanDensity) OnStep(_ int, r float64, x dynamo.State) {
	d.r, d.m = r, x[0]
}

func (d *MeanDensity) Value() float64 {
	if d.r <= 0 {
		return 0
	}
	return 3 * d.m / (d.r * d.r * d.r)
}

func (d *MeanDensity) Reset() { d.r, d.m = 0, 0 }

// Defaults returns a fresh set of the metrics every star run reports.
func Defaults() []dynamo.Metric {
	return []dynamo.Metric{NewCompactness(), NewMeanDensity()}
}
