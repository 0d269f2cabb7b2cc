package star_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/integrators"
	"github.com/san-kum/nstar/internal/physics"
	"github.com/san-kum/nstar/internal/star"
)

// relClose matches within a relative tolerance.
func relClose(want, rel float64) OmegaMatcher {
	return BeNumerically("~", want, math.Abs(want)*rel)
}

var _ = Describe("Scale", func() {
	It("derives M0 and R0 from the default constants", func() {
		s := star.NewScale(star.DefaultConstants())
		Expect(s.M0).To(relClose(4.575382393549435e+60, 1e-8))
		Expect(s.R0).To(relClose(6.024324404472039e+18, 1e-8))
	})

	It("converts dimensionless values to solar masses and kilometres", func() {
		s := star.Scale{M0: 2, R0: 3e18, SolarMass: 4}
		Expect(s.MassSolar(1)).To(Equal(0.5))
		Expect(s.RadiusKm(2)).To(BeNumerically("~", 6, 1e-12))
	})
})

var _ = Describe("Run", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	run := func(model physics.Model) *star.Result {
		opts := star.DefaultOptions(star.PhysicalNeutronMass)
		opts.Model = model
		res, err := star.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	Context("with the classical model", func() {
		It("reproduces the reference mass-radius point", func() {
			res := run(physics.ModelClassical)

			Expect(res.Status).To(Equal(dynamo.Converged))
			Expect(res.Err()).NotTo(HaveOccurred())
			Expect(res.StopIndex).To(Equal(274))
			Expect(res.InitialDensity).To(relClose(1.2914454876273878, 1e-12))
			Expect(res.CentralDensity).To(Equal(star.DefaultCentralDensity))
			Expect(res.SurfaceMassSolar).To(relClose(10.054740480168345, 1e-8))
			Expect(res.SurfaceRadiusKm).To(relClose(16.56689211229811, 1e-8))
		})

		It("lies inside its own Schwarzschild radius", func() {
			res := run(physics.ModelClassical)
			Expect(res.Metrics["compactness"]).To(BeNumerically(">", 1))
		})
	})

	Context("with the relativistic model", func() {
		It("reproduces the reference mass-radius point", func() {
			res := run(physics.ModelRelativistic)

			Expect(res.Status).To(Equal(dynamo.Converged))
			Expect(res.StopIndex).To(Equal(161))
			Expect(res.SurfaceMassSolar).To(relClose(1.8771758575071826, 1e-8))
			Expect(res.SurfaceRadiusKm).To(relClose(9.759405535244705, 1e-8))
		})

		It("falls in the neutron-star range", func() {
			res := run(physics.ModelRelativistic)
			Expect(res.SurfaceMassSolar).To(BeNumerically("<", 3))
			Expect(res.SurfaceRadiusKm).To(BeNumerically(">", 5))
			Expect(res.SurfaceRadiusKm).To(BeNumerically("<", 20))
			Expect(res.Metrics["compactness"]).To(BeNumerically("<", 1))
		})

		It("is lighter than the classical star of the same central density", func() {
			rel := run(physics.ModelRelativistic)
			cl := run(physics.ModelClassical)
			Expect(rel.SurfaceMassSolar).To(BeNumerically("<", cl.SurfaceMassSolar))
			Expect(rel.SurfaceRadiusKm).To(BeNumerically("<", cl.SurfaceRadiusKm))
		})
	})

	Context("when an RK4 stage overshoots the surface", func() {
		It("treats the negative stage pressure as vacuum and converges", func() {
			opts := star.DefaultOptions(1100)
			opts.Constants.CentralDensity = 1080
			res, err := star.Run(ctx, opts)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Status).To(Equal(dynamo.Converged))
			Expect(res.StopIndex).To(Equal(129))
			Expect(res.SurfaceMassSolar).To(relClose(1.4694290408418995, 1e-8))
			Expect(res.SurfaceRadiusKm).To(relClose(9.72492063593678, 1e-8))
		})
	})

	Describe("the trajectory", func() {
		It("has equal lengths of stop index plus two", func() {
			for _, m := range physics.Models() {
				res := run(m)
				n := res.StopIndex + 2
				Expect(res.Trajectory.R).To(HaveLen(n))
				Expect(res.Trajectory.M).To(HaveLen(n))
				Expect(res.Trajectory.P).To(HaveLen(n))
			}
		})

		It("starts at the centre with the solved pressure", func() {
			res := run(physics.ModelRelativistic)
			Expect(res.Trajectory.R[0]).To(Equal(0.0))
			Expect(res.Trajectory.M[0]).To(Equal(0.0))
			Expect(res.Trajectory.P[0]).To(relClose(0.4179010697428423, 1e-12))
		})

		It("advances the radius by a constant step", func() {
			res := run(physics.ModelClassical)
			h := dynamo.DefaultGrid().Step()
			for i := 1; i < res.Trajectory.Len(); i++ {
				Expect(res.Trajectory.R[i] - res.Trajectory.R[i-1]).To(BeNumerically("~", h, 1e-12))
			}
		})

		It("stops at the first pressure below tolerance", func() {
			res := run(physics.ModelRelativistic)
			p := res.Trajectory.P
			Expect(p[len(p)-1]).To(BeNumerically("<", star.DefaultSurfaceTolerance))
			for _, v := range p[:len(p)-1] {
				Expect(v).To(BeNumerically(">=", star.DefaultSurfaceTolerance))
			}
		})

		It("converts to a physical profile ending at the surface point", func() {
			res := run(physics.ModelRelativistic)
			prof := res.Profile()
			last := len(prof.RadiusKm) - 1
			Expect(prof.RadiusKm[last]).To(Equal(res.SurfaceRadiusKm))
			Expect(prof.MassSolar[last]).To(Equal(res.SurfaceMassSolar))
			Expect(prof.PressureMeV[0]).To(relClose(0.4179010697428423*star.DefaultCentralDensity, 1e-12))
		})
	})

	Context("when the grid is too short", func() {
		It("reports truncation without failing", func() {
			opts := star.DefaultOptions(star.PhysicalNeutronMass)
			opts.Grid = dynamo.Grid{Start: 0, End: 1, Points: 101}

			res, err := star.Run(ctx, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(dynamo.Truncated))
			Expect(res.Converged()).To(BeFalse())
			Expect(res.Err()).To(MatchError(dynamo.ErrIntegrationTruncated))
			Expect(res.StopIndex).To(Equal(99))
			Expect(res.Trajectory.Len()).To(Equal(101))
		})
	})

	Context("with invalid input", func() {
		DescribeTable("rejects before computing",
			func(mutate func(*star.Options)) {
				opts := star.DefaultOptions(star.PhysicalNeutronMass)
				mutate(&opts)
				res, err := star.Run(ctx, opts)
				Expect(err).To(MatchError(dynamo.ErrInvalidInput))
				Expect(res).To(BeNil())
			},
			Entry("negative particle mass", func(o *star.Options) { o.ParticleMass = -1 }),
			Entry("NaN particle mass", func(o *star.Options) { o.ParticleMass = math.NaN() }),
			Entry("zero central density", func(o *star.Options) { o.Constants.CentralDensity = 0 }),
			Entry("negative central density", func(o *star.Options) { o.Constants.CentralDensity = -5 }),
			Entry("infinite central density", func(o *star.Options) { o.Constants.CentralDensity = math.Inf(1) }),
			Entry("zero surface tolerance", func(o *star.Options) { o.SurfaceTolerance = 0 }),
			Entry("single point grid", func(o *star.Options) { o.Grid.Points = 1 }),
			Entry("unknown model", func(o *star.Options) { o.Model = physics.Model(9) }),
		)
	})

	Context("when Newton-Raphson cannot converge", func() {
		It("returns a non-convergence error", func() {
			opts := star.DefaultOptions(star.PhysicalNeutronMass)
			opts.Newton.MaxIter = 2

			_, err := star.Run(ctx, opts)
			Expect(err).To(MatchError(dynamo.ErrNonConvergence))
		})
	})

	It("honours a custom integrator", func() {
		opts := star.DefaultOptions(star.PhysicalNeutronMass)
		opts.NewIntegrator = func() dynamo.Integrator { return integrators.NewEuler() }

		res, err := star.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.SurfaceMassSolar).To(BeNumerically("~", 1.8771758575071826, 0.2))
		Expect(res.SurfaceMassSolar).NotTo(relClose(1.8771758575071826, 1e-8))
	})

	It("stops when the context is canceled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := star.Run(cctx, star.DefaultOptions(star.PhysicalNeutronMass))
		Expect(err).To(MatchError(context.Canceled))
	})
})
