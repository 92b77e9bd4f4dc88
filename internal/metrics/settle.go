package metrics

import "math"

// SettleTime is the time from the last target change until the spring came
// within epsilon of rest at the target and stayed there. It is -1 while the
// spring has not settled.
type SettleTime struct {
	name      string
	posEps    float64
	velEps    float64
	target    float64
	changedAt float64
	settledAt float64
	started   bool
}

func NewSettleTime(posEps, velEps float64) *SettleTime {
	return &SettleTime{
		name:      "settle_time_ms",
		posEps:    posEps,
		velEps:    velEps,
		settledAt: -1,
	}
}

func (st *SettleTime) Name() string { return st.name }

func (st *SettleTime) Observe(s Sample) {
	if !st.started || s.Target != st.target {
		st.target = s.Target
		st.changedAt = s.TimeMs
		st.settledAt = -1
		st.started = true
	}

	at := math.Abs(s.Position-s.Target) < st.posEps && math.Abs(s.Velocity) < st.velEps
	switch {
	case at && st.settledAt < 0:
		st.settledAt = s.TimeMs
	case !at:
		st.settledAt = -1
	}
}

func (st *SettleTime) Value() float64 {
	if st.settledAt < 0 {
		return -1
	}
	return st.settledAt - st.changedAt
}

func (st *SettleTime) Reset() {
	st.started = false
	st.settledAt = -1
	st.changedAt = 0
}
