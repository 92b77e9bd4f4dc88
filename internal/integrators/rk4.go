package integrators

// rk4Nodes are the stage offsets as fractions of dt.
var rk4Nodes = [4]float64{0, 0.5, 0.5, 1}

// RK4 is classic fourth-order Runge-Kutta. spring.RK4Solver drives it with a
// two-element [position, velocity] state once per frame, so the stage slopes
// and the trial state are kept between calls instead of reallocated.
type RK4 struct {
	slopes [4]State
	trial  State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) resize(n int) {
	if len(r.trial) == n {
		return
	}
	for i := range r.slopes {
		r.slopes[i] = make(State, n)
	}
	r.trial = make(State, n)
}

func (r *RK4) Step(sys System, x State, t, dt float64) State {
	r.resize(len(x))

	for stage, node := range rk4Nodes {
		in := x
		if stage > 0 {
			prev := r.slopes[stage-1]
			for i := range x {
				r.trial[i] = x[i] + node*dt*prev[i]
			}
			in = r.trial
		}
		copy(r.slopes[stage], sys.Derive(in, t+node*dt))
	}

	k := r.slopes
	out := make(State, len(x))
	for i := range x {
		out[i] = x[i] + dt/6*(k[0][i]+2*k[1][i]+2*k[2][i]+k[3][i])
	}
	return out
}
