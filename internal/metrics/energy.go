package metrics

import "math"

// EnergyDrift is the largest frame-to-frame energy increase relative to the
// energy right after the last target change. A damped spring integrated
// well stays near 0.
type EnergyDrift struct {
	name     string
	target   float64
	baseline float64
	previous float64
	maxDrift float64
	started  bool
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s Sample) {
	if !e.started || s.Target != e.target {
		e.target = s.Target
		e.baseline = s.Energy
		e.previous = s.Energy
		e.started = true
		return
	}

	if e.baseline > 0 {
		drift := (s.Energy - e.previous) / e.baseline
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
	e.previous = s.Energy
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.started = false
	e.baseline = 0
	e.previous = 0
	e.maxDrift = 0
}
