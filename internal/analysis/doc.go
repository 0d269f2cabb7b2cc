// Package analysis provides numerical diagnostics for fixed-step
// integrators.
//
//   - [ObservedOrder]: empirical convergence order from three refinements
//   - [OrderStudy]: runs a system on successively halved steps and reports
//     the order for each state component
//
// # Example
//
// A fourth-order method should report an order close to 4:
//
//	study, _ := analysis.OrderStudy(ctx, sys, integrators.NewRK4, x0, grid)
//	fmt.Println(study.Orders)
package analysis
