package integrators

import (
	"math"
	"testing"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x State, t float64) State {
	return State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK4Accuracy(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewRK4()

	dt := 0.01
	steps := 100

	x := State{1.0, 0.0}
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestSemiImplicitEulerUsesUpdatedVelocity(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewSemiImplicitEuler()

	x := integ.Step(dyn, State{1.0, 0.0}, 0, 0.1)

	// v' = 0 + (-1)(0.1) = -0.1, x' = 1 + (-0.1)(0.1) = 0.99
	if math.Abs(x[1]+0.1) > 1e-12 {
		t.Errorf("expected velocity -0.1, got %f", x[1])
	}
	if math.Abs(x[0]-0.99) > 1e-12 {
		t.Errorf("expected position 0.99, got %f", x[0])
	}
}

func TestSymplecticEnergyBounded(t *testing.T) {
	tests := []struct {
		name  string
		integ Integrator
	}{
		{"semi_implicit", NewSemiImplicitEuler()},
		{"verlet", NewVerlet()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dyn := &harmonicOscillator{}
			x := State{1.0, 0.0}
			e0 := dyn.Energy(x)
			dt := 0.1

			for i := 0; i < 10000; i++ {
				x = tt.integ.Step(dyn, x, float64(i)*dt, dt)
			}

			if !x.IsValid() {
				t.Fatal("integrator produced invalid state")
			}
			drift := math.Abs(dyn.Energy(x)-e0) / e0
			if drift > 0.15 {
				t.Errorf("energy drift too high: %f", drift)
			}
		})
	}
}

func TestStateIsValid(t *testing.T) {
	if !(State{1, 2}).IsValid() {
		t.Error("finite state should be valid")
	}
	if (State{1, math.NaN()}).IsValid() {
		t.Error("NaN state should be invalid")
	}
	if (State{math.Inf(1)}).IsValid() {
		t.Error("Inf state should be invalid")
	}

	s := State{1, 2}
	c := s.Clone()
	c[0] = 9
	if s[0] != 1 {
		t.Error("clone must not alias")
	}
}

// bufferedOscillator returns the same slice from every Derive call, as a
// system that avoids allocation would.
type bufferedOscillator struct {
	out State
}

func (b *bufferedOscillator) StateDim() int { return 2 }

func (b *bufferedOscillator) Derive(x State, t float64) State {
	if b.out == nil {
		b.out = make(State, 2)
	}
	b.out[0], b.out[1] = x[1], -x[0]
	return b.out
}

func TestReusedDeriveBufferMatchesFresh(t *testing.T) {
	tests := []struct {
		name          string
		fresh, reused Integrator
	}{
		{"rk4", NewRK4(), NewRK4()},
		{"verlet", NewVerlet(), NewVerlet()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := State{1, 0}, State{1, 0}
			for i := 0; i < 200; i++ {
				a = tt.fresh.Step(&harmonicOscillator{}, a, 0, 0.05)
				b = tt.reused.Step(&bufferedOscillator{}, b, 0, 0.05)
			}
			if math.Abs(a[0]-b[0]) > 1e-12 || math.Abs(a[1]-b[1]) > 1e-12 {
				t.Errorf("shared derive buffer changed the result: %v vs %v", a, b)
			}
		})
	}
}
