package integrators

// Verlet is velocity Verlet for [positions..., velocities...] layouts.
// spring.VerletSolver uses it for a damped spring: the acceleration at the
// new position is taken with the old velocity, so the damping term is only
// first-order accurate while the stiffness term is second-order.
type Verlet struct {
	moved State
	accel State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(sys System, x State, t, dt float64) State {
	n := len(x)
	half := n / 2
	if len(v.moved) != n {
		v.moved = make(State, n)
		v.accel = make(State, n)
	}

	// sys may reuse its output buffer; keep the first derivative
	copy(v.accel, sys.Derive(x, t))
	for i := 0; i < half; i++ {
		v.moved[i] = x[i] + dt*(x[half+i]+0.5*dt*v.accel[half+i])
		v.moved[half+i] = x[half+i]
	}

	next := sys.Derive(v.moved, t+dt)
	out := v.moved.Clone()
	for i := half; i < n; i++ {
		out[i] = x[i] + 0.5*dt*(v.accel[i]+next[i])
	}
	return out
}
