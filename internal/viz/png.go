package viz

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/nstar/internal/star"
)

// SaveProfilePNG writes one profile column against radius in km.
func SaveProfilePNG(path string, p star.Profile, q Quantity) error {
	data := q.values(p)
	if len(data) == 0 {
		return fmt.Errorf("no data to plot")
	}

	pts := make(plotter.XYs, len(data))
	for i := range data {
		pts[i] = plotter.XY{X: p.RadiusKm[i], Y: data[i]}
	}

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("%s profile", q)
	pl.X.Label.Text = "r (km)"
	pl.Y.Label.Text = q.Label()

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	pl.Add(line, plotter.NewGrid())

	return pl.Save(6*vg.Inch, 4*vg.Inch, path)
}

// SaveCurvePNG writes the mass-radius diagram of a sweep, one line per
// model. Failed points are left out.
func SaveCurvePNG(path string, points []star.Point) error {
	byModel := map[string]plotter.XYs{}
	var order []string
	for _, pt := range points {
		if pt.Err != nil {
			continue
		}
		name := pt.Model.String()
		if _, ok := byModel[name]; !ok {
			order = append(order, name)
		}
		byModel[name] = append(byModel[name], plotter.XY{X: pt.RadiusKm, Y: pt.MassSolar})
	}
	if len(order) == 0 {
		return fmt.Errorf("no successful points to plot")
	}

	pl := plot.New()
	pl.Title.Text = "mass-radius relation"
	pl.X.Label.Text = "R (km)"
	pl.Y.Label.Text = "M (Msun)"
	pl.Add(plotter.NewGrid())

	var lines []interface{}
	for _, name := range order {
		lines = append(lines, name, byModel[name])
	}
	if err := plotutil.AddLinePoints(pl, lines...); err != nil {
		return err
	}

	return pl.Save(6*vg.Inch, 6*vg.Inch, path)
}
