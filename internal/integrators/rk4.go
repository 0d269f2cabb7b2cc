package integrators

import "github.com/san-kum/nstar/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta stepper. It reuses scratch
// buffers between calls, so one instance must not be shared across
// goroutines.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, h float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(x, t))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + 0.5*h*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.scratch, t+0.5*h))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + 0.5*h*r.k2[i]
	}
	copy(r.k3, sys.Derive(r.scratch, t+0.5*h))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*r.k3[i]
	}
	copy(r.k4, sys.Derive(r.scratch, t+h))

	result := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		result[i] = x[i] + h*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])/6
	}

	return result
}
