package star_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/physics"
	"github.com/san-kum/nstar/internal/star"
)

var _ = Describe("Sweep", func() {
	It("returns one point per mass in input order", func() {
		opts := star.DefaultOptions(0)
		opts.Model = physics.ModelRelativistic
		masses := []float64{500, star.PhysicalNeutronMass, 1500}

		points, err := star.Sweep(context.Background(), opts, masses, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(3))

		want := []struct{ m, r float64 }{
			{2.8629216290243233, 13.43424342197265},
			{1.8771758575071826, 9.759405535244705},
			{1.1029085428023278, 7.59064874963477},
		}
		for i, p := range points {
			Expect(p.Err).NotTo(HaveOccurred())
			Expect(p.ParticleMass).To(Equal(masses[i]))
			Expect(p.Status).To(Equal(dynamo.Converged))
			Expect(p.MassSolar).To(relClose(want[i].m, 1e-8))
			Expect(p.RadiusKm).To(relClose(want[i].r, 1e-8))
		}
	})

	It("matches a sequential run", func() {
		opts := star.DefaultOptions(star.PhysicalNeutronMass)
		opts.Model = physics.ModelClassical
		res, err := star.Run(context.Background(), opts)
		Expect(err).NotTo(HaveOccurred())

		points, err := star.Sweep(context.Background(), opts, []float64{star.PhysicalNeutronMass}, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(points[0].MassSolar).To(Equal(res.SurfaceMassSolar))
		Expect(points[0].RadiusKm).To(Equal(res.SurfaceRadiusKm))
	})

	It("records per-point failures without aborting", func() {
		opts := star.DefaultOptions(0)
		points, err := star.Sweep(context.Background(), opts, []float64{-1, star.PhysicalNeutronMass}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(points[0].Err).To(MatchError(dynamo.ErrInvalidInput))
		Expect(points[1].Err).NotTo(HaveOccurred())
	})

	It("sweeps central densities", func() {
		opts := star.DefaultOptions(star.PhysicalNeutronMass)
		points, err := star.SweepDensities(context.Background(), opts, []float64{500, star.DefaultCentralDensity}, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(points[0].CentralDensity).To(Equal(500.0))
		Expect(points[0].MassSolar).To(relClose(1.2563628368074369, 1e-8))
		Expect(points[0].RadiusKm).To(relClose(11.544068314367527, 1e-8))
		Expect(points[1].MassSolar).To(relClose(1.8771758575071826, 1e-8))
	})

	It("runs arbitrary option sets", func() {
		rel := star.DefaultOptions(star.PhysicalNeutronMass)
		cl := rel
		cl.Model = physics.ModelClassical

		points, err := star.SweepOptions(context.Background(), []star.Options{cl, rel}, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(points[0].Model).To(Equal(physics.ModelClassical))
		Expect(points[0].MassSolar).To(relClose(10.054740480168345, 1e-8))
		Expect(points[1].MassSolar).To(relClose(1.8771758575071826, 1e-8))
	})

	It("aborts on cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := star.Sweep(ctx, star.DefaultOptions(0), []float64{900, 940}, 1)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Linspace", func() {
	It("includes both endpoints", func() {
		Expect(star.Linspace(1, 2, 3)).To(Equal([]float64{1, 1.5, 2}))
		Expect(star.Linspace(4, 9, 1)).To(Equal([]float64{4}))
		Expect(star.Linspace(4, 9, 0)).To(BeEmpty())
	})
})
