package integrators

// SemiImplicitEuler updates velocities from the current acceleration, then
// positions from the updated velocities. Unlike explicit Euler it does not
// gain energy on undamped oscillators at large dt.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Step(sys System, x State, t, dt float64) State {
	half := len(x) / 2
	dx := sys.Derive(x, t)

	result := make(State, len(x))
	for i := 0; i < half; i++ {
		v := x[half+i] + dx[half+i]*dt
		result[half+i] = v
		result[i] = x[i] + v*dt
	}
	return result
}
