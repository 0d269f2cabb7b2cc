package star_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/integrators"
	"github.com/san-kum/nstar/internal/star"
)

var _ = Describe("OrderStudy", func() {
	ctx := context.Background()

	DescribeTable("observed order on the stellar interior",
		func(newIntegrator func() dynamo.Integrator, want float64) {
			opts := star.DefaultOptions(star.PhysicalNeutronMass)
			opts.NewIntegrator = newIntegrator

			study, err := star.OrderStudy(ctx, opts, star.DefaultOrderGrid())
			Expect(err).NotTo(HaveOccurred())
			Expect(study.Orders).To(HaveLen(2))
			for _, p := range study.Orders {
				Expect(p).To(BeNumerically("~", want, 0.2))
			}
		},
		Entry("euler", func() dynamo.Integrator { return integrators.NewEuler() }, 1.0),
		// the centre singularity caps rk4 near second order
		Entry("rk4", func() dynamo.Integrator { return integrators.NewRK4() }, 2.0),
	)

	It("rejects a bad grid", func() {
		_, err := star.OrderStudy(ctx, star.DefaultOptions(star.PhysicalNeutronMass), dynamo.Grid{Start: 0, End: 1, Points: 1})
		Expect(err).To(MatchError(dynamo.ErrInvalidInput))
	})
})
