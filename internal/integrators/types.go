// Package integrators provides fixed-step ODE integrators for second-order
// systems laid out as [positions..., velocities...].
//
//   - [SemiImplicitEuler]: symplectic Euler, velocity first
//   - [Verlet]: velocity Verlet
//   - [RK4]: classic fourth-order Runge-Kutta
//
// Integrators keep scratch buffers between calls and are NOT thread-safe.
package integrators

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}
