package reactive

// Targeter receives animation targets. *spring.Spring, *spring.Shared and
// scheduler.SpringRef all satisfy it.
type Targeter interface {
	SetTarget(v float64)
}

// BindSpring keeps t's target at offset + gain*sig.
func BindSpring(g *Graph, sig SignalID, t Targeter, gain, offset float64) EffectID {
	return g.Effect(func() {
		t.SetTarget(offset + gain*g.Get(sig))
	})
}

// TargeterFunc adapts a function to Targeter.
type TargeterFunc func(float64)

func (f TargeterFunc) SetTarget(v float64) { f(v) }
