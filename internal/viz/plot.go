package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/nstar/internal/star"
)

// Quantity selects which profile column is plotted.
type Quantity int

const (
	Mass Quantity = iota
	Pressure
)

func (q Quantity) String() string {
	if q == Pressure {
		return "pressure"
	}
	return "mass"
}

func (q Quantity) Label() string {
	if q == Pressure {
		return "p (MeV/fm^3)"
	}
	return "m (Msun)"
}

func (q Quantity) values(p star.Profile) []float64 {
	if q == Pressure {
		return p.PressureMeV
	}
	return p.MassSolar
}

// PlotProfile draws one profile column against radius. The radial grid is
// uniform, so the sample index is proportional to r.
func PlotProfile(p star.Profile, q Quantity, width, height int) (string, error) {
	data := q.values(p)
	if len(data) == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	caption := fmt.Sprintf("%s vs r, 0 to %.3f km", q.Label(), p.RadiusKm[len(p.RadiusKm)-1])
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}

// PlotComparison overlays the same column of several profiles computed on
// one grid. Shorter profiles are held at their surface value, which is
// where the star ends.
func PlotComparison(profiles []star.Profile, names []string, q Quantity, width, height int) (string, error) {
	if len(profiles) == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	longest := 0
	for _, p := range profiles {
		longest = max(longest, len(q.values(p)))
	}
	if longest == 0 {
		return "", fmt.Errorf("no data to plot")
	}

	series := make([][]float64, len(profiles))
	for i, p := range profiles {
		series[i] = padTo(q.values(p), longest)
	}

	colors := []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s vs r", q.Label())),
		asciigraph.SeriesColors(colors[:min(len(series), len(colors))]...),
	}
	if len(names) == len(series) {
		opts = append(opts, asciigraph.SeriesLegends(names...))
	}
	return asciigraph.PlotMany(series, opts...), nil
}

// PlotCurve draws surface mass across a sweep. Failed points are skipped.
func PlotCurve(points []star.Point, width, height int) (string, error) {
	var masses []float64
	for _, pt := range points {
		if pt.Err == nil {
			masses = append(masses, pt.MassSolar)
		}
	}
	if len(masses) == 0 {
		return "", fmt.Errorf("no successful points to plot")
	}
	first, last := points[0], points[len(points)-1]
	caption := fmt.Sprintf("M (Msun) for mn %.1f to %.1f MeV", first.ParticleMass, last.ParticleMass)
	if first.ParticleMass == last.ParticleMass {
		caption = fmt.Sprintf("M (Msun) for rho_s %.1f to %.1f MeV/fm^3", first.CentralDensity, last.CentralDensity)
	}
	return asciigraph.Plot(masses,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}

func padTo(v []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, v)
	for i := len(v); i < n && len(v) > 0; i++ {
		out[i] = v[len(v)-1]
	}
	return out
}
