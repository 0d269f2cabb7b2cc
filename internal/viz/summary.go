package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/star"
)

// Summary renders the headline numbers of one run as a bordered panel.
func Summary(res *star.Result) string {
	return summary(newStyles(CurrentTheme), res)
}

func summary(s styles, res *star.Result) string {
	var b strings.Builder

	b.WriteString(s.title.Render(fmt.Sprintf("%s star", res.Model)))
	b.WriteString("  ")
	b.WriteString(statusText(s, res.Status))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"mass", fmt.Sprintf("%.6f Msun", res.SurfaceMassSolar)},
		{"radius", fmt.Sprintf("%.6f km", res.SurfaceRadiusKm)},
		{"particle mass", fmt.Sprintf("%g MeV", res.ParticleMass)},
		{"central density", fmt.Sprintf("%g MeV/fm^3", res.CentralDensity)},
		{"initial density", fmt.Sprintf("%.10f (%d newton iterations)", res.InitialDensity, res.NewtonIterations)},
		{"stop index", fmt.Sprintf("%d", res.StopIndex)},
	}
	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rows = append(rows, [2]string{name, fmt.Sprintf("%.6g", res.Metrics[name])})
	}

	for _, row := range rows {
		b.WriteString(s.label.Render(fmt.Sprintf("%-16s", row[0])))
		b.WriteString(s.value.Render(row[1]))
		b.WriteString("\n")
	}

	if err := res.Err(); err != nil {
		b.WriteString("\n")
		b.WriteString(s.truncated.Render(err.Error()))
	}

	return s.panel.Render(strings.TrimRight(b.String(), "\n"))
}

// CurveTable lists sweep points, one per line.
func CurveTable(points []star.Point) string {
	s := newStyles(CurrentTheme)
	var b strings.Builder

	b.WriteString(s.label.Render(fmt.Sprintf("%-14s %-12s %14s %14s %14s  %s", "model", "mn (MeV)", "rho_s", "M (Msun)", "R (km)", "status")))
	b.WriteString("\n")
	b.WriteString(separator(s, 86))
	b.WriteString("\n")

	for _, pt := range points {
		fmt.Fprintf(&b, "%-14s %-12.3f %14.3f ", pt.Model, pt.ParticleMass, pt.CentralDensity)
		if pt.Err != nil {
			b.WriteString(s.failed.Render(fmt.Sprintf("%14s %14s  %v", "-", "-", pt.Err)))
			b.WriteString("\n")
			continue
		}
		b.WriteString(s.value.Render(fmt.Sprintf("%14.6f %14.6f", pt.MassSolar, pt.RadiusKm)))
		b.WriteString("  ")
		b.WriteString(statusText(s, pt.Status))
		b.WriteString("\n")
	}

	return b.String()
}

func statusText(s styles, st dynamo.Status) string {
	if st == dynamo.Converged {
		return s.converged.Render(st.String())
	}
	return s.truncated.Render(st.String())
}
