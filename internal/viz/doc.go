// Package viz renders star profiles and mass-radius curves.
//
//   - [PlotProfile], [PlotComparison], [PlotCurve]: asciigraph terminal plots
//   - [Summary], [CurveTable]: lipgloss-styled run reports
//   - [SaveProfilePNG], [SaveCurvePNG]: gonum/plot image output
//   - [Explorer]: Bubble Tea program that re-runs the structure calculation
//     as parameters change
//
// # Explorer keys
//
//	m       - toggle classical/relativistic
//	+/-     - particle mass up/down
//	]/[     - central density up/down
//	t       - cycle color themes
//	r       - re-run
//	q       - quit
package viz
