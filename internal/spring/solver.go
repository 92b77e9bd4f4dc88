package spring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/motionlab/internal/integrators"
)

var ErrUnknownSolver = errors.New("spring: unknown solver")

// Solver advances one spring state by dt seconds. Clone returns a solver
// with its own scratch state; stateless solvers may return themselves.
type Solver interface {
	Advance(pos, vel, target float64, cfg Config, dt float64) (float64, float64)
	Clone() Solver
}

// oscillator is m x'' = k (target - x) - c x' in [x, v] layout.
type oscillator struct {
	cfg    Config
	target float64
}

func (o *oscillator) StateDim() int { return 2 }

func (o *oscillator) Derive(x integrators.State, t float64) integrators.State {
	a := (o.cfg.Stiffness*(o.target-x[0]) - o.cfg.Damping*x[1]) / o.cfg.Mass
	return integrators.State{x[1], a}
}

// SemiImplicit updates velocity first, then position from the new velocity.
type SemiImplicit struct{}

func (SemiImplicit) Advance(pos, vel, target float64, cfg Config, dt float64) (float64, float64) {
	return advanceWith(integrators.NewSemiImplicitEuler(), pos, vel, target, cfg, dt)
}

func (s SemiImplicit) Clone() Solver { return s }

// RK4Solver integrates with classic Runge-Kutta. It keeps scratch buffers and
// must not be shared between goroutines.
type RK4Solver struct {
	rk4 *integrators.RK4
}

func NewRK4Solver() *RK4Solver {
	return &RK4Solver{rk4: integrators.NewRK4()}
}

func (r *RK4Solver) Advance(pos, vel, target float64, cfg Config, dt float64) (float64, float64) {
	if r.rk4 == nil {
		r.rk4 = integrators.NewRK4()
	}
	return advanceWith(r.rk4, pos, vel, target, cfg, dt)
}

func (r *RK4Solver) Clone() Solver { return NewRK4Solver() }

// VerletSolver integrates with velocity Verlet.
type VerletSolver struct {
	verlet *integrators.Verlet
}

func NewVerletSolver() *VerletSolver {
	return &VerletSolver{verlet: integrators.NewVerlet()}
}

func (v *VerletSolver) Advance(pos, vel, target float64, cfg Config, dt float64) (float64, float64) {
	if v.verlet == nil {
		v.verlet = integrators.NewVerlet()
	}
	return advanceWith(v.verlet, pos, vel, target, cfg, dt)
}

func (v *VerletSolver) Clone() Solver { return NewVerletSolver() }

func advanceWith(integ integrators.Integrator, pos, vel, target float64, cfg Config, dt float64) (float64, float64) {
	sys := &oscillator{cfg: cfg, target: target}
	x := integ.Step(sys, integrators.State{pos, vel}, 0, dt)
	return x[0], x[1]
}

// Analytic uses the closed-form damped oscillator from harmonica. The
// coefficients are cached and recomputed only when dt or the config change.
type Analytic struct {
	cached harmonica.Spring
	dt     float64
	cfg    Config
	ready  bool
}

func NewAnalytic() *Analytic {
	return &Analytic{}
}

func (a *Analytic) Advance(pos, vel, target float64, cfg Config, dt float64) (float64, float64) {
	if !a.ready || a.dt != dt || a.cfg != cfg {
		a.cached = harmonica.NewSpring(dt, cfg.AngularFrequency(), cfg.DampingRatio())
		a.dt = dt
		a.cfg = cfg
		a.ready = true
	}
	return a.cached.Update(pos, vel, target)
}

// Clone copies the cached coefficients into a new solver.
func (a *Analytic) Clone() Solver {
	c := *a
	return &c
}

// ParseSolver maps "semi_implicit" (or ""), "rk4", "verlet" and "analytic"
// to a fresh solver.
func ParseSolver(name string) (Solver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "semi_implicit", "euler":
		return SemiImplicit{}, nil
	case "rk4":
		return NewRK4Solver(), nil
	case "verlet":
		return NewVerletSolver(), nil
	case "analytic", "harmonica":
		return NewAnalytic(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, name)
	}
}

func SolverNames() []string {
	return []string{"analytic", "rk4", "semi_implicit", "verlet"}
}
