// Package star computes the mass and pressure profile of a neutron star.
//
// [Run] solves for the central number density, integrates the structure
// equations outward on a fixed radial grid until the pressure drops below
// the surface tolerance, and converts the surface point to solar masses and
// kilometres. Integration happens in dimensionless units; [Scale] is applied
// only to the finished trajectory.
//
//	opts := star.DefaultOptions(939.565)
//	opts.Model = physics.ModelRelativistic
//	res, err := star.Run(ctx, opts)
//	fmt.Println(res.SurfaceMassSolar, res.SurfaceRadiusKm)
//
// Every call owns all of its state, so independent runs may execute
// concurrently; see [Sweep].
package star
