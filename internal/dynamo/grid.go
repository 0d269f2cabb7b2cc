package dynamo

import "fmt"

const (
	DefaultGridStart  = 0.0
	DefaultGridEnd    = 15.0
	DefaultGridPoints = 1501
)

// Grid is a closed interval [Start, End] sampled at Points evenly spaced
// abscissae.
type Grid struct {
	Start  float64
	End    float64
	Points int
}

func DefaultGrid() Grid {
	return Grid{Start: DefaultGridStart, End: DefaultGridEnd, Points: DefaultGridPoints}
}

func (g Grid) Validate() error {
	if g.Points < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidGrid, g.Points)
	}
	if !(g.End > g.Start) {
		return fmt.Errorf("%w: end %g must exceed start %g", ErrInvalidGrid, g.End, g.Start)
	}
	return nil
}

// Step is the spacing between neighbouring points.
func (g Grid) Step() float64 {
	return (g.End - g.Start) / float64(g.Points-1)
}

// At returns the i-th abscissa.
func (g Grid) At(i int) float64 {
	return g.Start + float64(i)*g.Step()
}

// Linspace materialises every abscissa of the grid.
func (g Grid) Linspace() []float64 {
	out := make([]float64, g.Points)
	h := g.Step()
	for i := range out {
		out[i] = g.Start + float64(i)*h
	}
	return out
}

// Refine returns the grid with every interval split into k equal parts.
func (g Grid) Refine(k int) Grid {
	return Grid{Start: g.Start, End: g.End, Points: (g.Points-1)*k + 1}
}
