// Package metrics summarizes how a spring moved over a run.
//
// Each [Metric] consumes one [Sample] per frame. Metrics that depend on the
// target restart their bookkeeping whenever the target changes, so a run
// with several retargets reports on the worst segment.
package metrics

import (
	"github.com/san-kum/motionlab/internal/spring"
)

type Sample struct {
	TimeMs   float64
	Position float64
	Velocity float64
	Target   float64
	Energy   float64
}

func FromSpring(timeMs float64, s *spring.Spring) Sample {
	return Sample{
		TimeMs:   timeMs,
		Position: s.Value(),
		Velocity: s.Velocity(),
		Target:   s.Target(),
		Energy:   s.Energy(),
	}
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Standard returns fresh instances of every spring metric.
func Standard() []Metric {
	return []Metric{
		NewOvershoot(),
		NewSettleTime(spring.PositionEpsilon, spring.VelocityEpsilon),
		NewEnergyDrift(),
	}
}
