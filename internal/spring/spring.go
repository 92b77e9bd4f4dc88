// Package spring implements an interruptible damped harmonic oscillator.
//
// A [Spring] pulls its position toward a target. Retargeting never touches
// velocity, so an in-flight spring can be redirected without a visible kink:
//
//	s := spring.New(spring.Snappy(), 0)
//	s.SetTarget(100)
//	for !s.IsSettled() {
//		s.Step(1.0 / 60)
//	}
//
// Integration is delegated to a [Solver]. The default is semi-implicit
// Euler; [RK4Solver], [VerletSolver] and the closed-form [Analytic] solver
// are available through [Spring.WithSolver].
//
// # Thread Safety
//
// Spring is NOT thread-safe. Use [Shared] when several goroutines need the
// same spring.
package spring

import (
	"math"
	"sort"
)

const (
	DefaultStiffness = 100.0
	DefaultDamping   = 10.0
	DefaultMass      = 1.0

	PositionEpsilon = 0.001
	VelocityEpsilon = 0.001
)

type Config struct {
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	Mass      float64 `yaml:"mass"`
}

// NewConfig clamps its arguments into a usable configuration. Negative or
// non-finite stiffness and damping fall back to the defaults, a
// non-positive or non-finite mass falls back to 1.
func NewConfig(stiffness, damping, mass float64) Config {
	if !finite(stiffness) || stiffness < 0 {
		stiffness = DefaultStiffness
	}
	if !finite(damping) || damping < 0 {
		damping = DefaultDamping
	}
	if !finite(mass) || mass <= 0 {
		mass = DefaultMass
	}
	return Config{Stiffness: stiffness, Damping: damping, Mass: mass}
}

// Sanitized returns c passed through NewConfig.
func (c Config) Sanitized() Config {
	return NewConfig(c.Stiffness, c.Damping, c.Mass)
}

// DampingRatio is c / (2 sqrt(k m)). Values below 1 oscillate.
func (c Config) DampingRatio() float64 {
	if c.Stiffness <= 0 || c.Mass <= 0 {
		return 0
	}
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

// AngularFrequency is sqrt(k / m).
func (c Config) AngularFrequency() float64 {
	if c.Mass <= 0 {
		return 0
	}
	return math.Sqrt(c.Stiffness / c.Mass)
}

func Stiff() Config  { return Config{Stiffness: 400, Damping: 30, Mass: 1} }
func Snappy() Config { return Config{Stiffness: 300, Damping: 20, Mass: 1} }
func Gentle() Config { return Config{Stiffness: 120, Damping: 14, Mass: 1} }
func Wobbly() Config { return Config{Stiffness: 180, Damping: 12, Mass: 1} }

var presets = map[string]func() Config{
	"stiff":  Stiff,
	"snappy": Snappy,
	"gentle": Gentle,
	"wobbly": Wobbly,
}

func Preset(name string) (Config, bool) {
	fn, ok := presets[name]
	if !ok {
		return Config{}, false
	}
	return fn(), true
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Spring struct {
	position float64
	velocity float64
	target   float64
	config   Config
	solver   Solver
}

// New returns a spring at rest on initial, with target = initial.
func New(cfg Config, initial float64) Spring {
	if !finite(initial) {
		initial = 0
	}
	return Spring{
		position: initial,
		target:   initial,
		config:   cfg.Sanitized(),
		solver:   SemiImplicit{},
	}
}

// WithSolver returns a copy of s that integrates with solver.
func (s Spring) WithSolver(solver Solver) Spring {
	if solver == nil {
		solver = SemiImplicit{}
	}
	s.solver = solver
	return s
}

// Step advances the spring by dt seconds. Non-positive or non-finite dt is
// ignored.
func (s *Spring) Step(dt float64) {
	if !finite(dt) || dt <= 0 {
		return
	}
	solver := s.solver
	if solver == nil {
		solver = SemiImplicit{}
	}
	pos, vel := solver.Advance(s.position, s.velocity, s.target, s.config, dt)
	if !finite(pos) || !finite(vel) {
		// non-finite result: snap to target
		s.position, s.velocity = s.target, 0
		return
	}
	s.position, s.velocity = pos, vel
}

// Clone returns a copy of s with its own solver. Plain assignment copies
// share the solver and, for the stateful solvers, its scratch buffers.
func (s Spring) Clone() Spring {
	if s.solver != nil {
		s.solver = s.solver.Clone()
	}
	return s
}

// SetTarget changes only the target. Velocity is preserved.
func (s *Spring) SetTarget(target float64) {
	if !finite(target) {
		return
	}
	s.target = target
}

// SetValue snaps the position and stops the spring.
func (s *Spring) SetValue(v float64) {
	if !finite(v) {
		return
	}
	s.position = v
	s.velocity = 0
}

func (s *Spring) SetVelocity(v float64) {
	if !finite(v) {
		return
	}
	s.velocity = v
}

func (s *Spring) SetConfig(cfg Config) {
	s.config = cfg.Sanitized()
}

func (s *Spring) Value() float64    { return s.position }
func (s *Spring) Velocity() float64 { return s.velocity }
func (s *Spring) Target() float64   { return s.target }
func (s *Spring) Config() Config    { return s.config }

func (s *Spring) IsSettled() bool {
	return math.Abs(s.position-s.target) < PositionEpsilon &&
		math.Abs(s.velocity) < VelocityEpsilon
}

// Energy is the potential plus kinetic energy relative to the target.
func (s *Spring) Energy() float64 {
	d := s.position - s.target
	return 0.5*s.config.Stiffness*d*d + 0.5*s.config.Mass*s.velocity*s.velocity
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
