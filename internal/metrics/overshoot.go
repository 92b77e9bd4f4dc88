package metrics

import "math"

// Overshoot is the largest distance a spring travelled past its target, in
// the direction it was travelling.
type Overshoot struct {
	name      string
	origin    float64
	target    float64
	started   bool
	overshoot float64
}

func NewOvershoot() *Overshoot {
	return &Overshoot{name: "overshoot"}
}

func (o *Overshoot) Name() string { return o.name }

func (o *Overshoot) Observe(s Sample) {
	if !o.started || s.Target != o.target {
		o.origin = s.Position
		o.target = s.Target
		o.started = true
		return
	}

	dir := o.target - o.origin
	if dir == 0 {
		return
	}
	past := (s.Position - o.target) * math.Copysign(1, dir)
	o.overshoot = math.Max(o.overshoot, past)
}

func (o *Overshoot) Value() float64 { return o.overshoot }

func (o *Overshoot) Reset() {
	o.started = false
	o.overshoot = 0
}
