// Package reactive is a small push-pull signal graph.
//
// Source signals hold numbers. Derived signals recompute lazily from the
// signals they read; effects rerun whenever a signal they read last time
// changes. Dependencies are tracked automatically on every read.
//
//	g := reactive.New()
//	hover := g.NewSignal(0)
//	scale := g.Derived(func() float64 { return 1 + 0.05*g.Get(hover) })
//	g.Effect(func() { sp.SetTarget(g.Get(scale)) })
//	g.Set(hover, 1) // effect reruns, spring retargets
//
// The graph is NOT thread-safe.
package reactive

import "github.com/san-kum/motionlab/internal/arena"

// maxFlush bounds effect reruns per flush. An effect that keeps writing a
// signal it reads stops after this many runs.
const maxFlush = 10000

type (
	SignalID arena.Handle
	EffectID arena.Handle
)

type nodeKind uint8

const (
	kindSource nodeKind = iota
	kindDerived
	kindEffect
)

type node struct {
	kind    nodeKind
	value   float64
	compute func() float64
	effect  func()
	dirty   bool
	queued  bool
	deps    []arena.Handle
	subs    map[arena.Handle]struct{}
}

type Graph struct {
	nodes    *arena.Arena[node]
	stack    []arena.Handle
	pending  []arena.Handle
	batch    int
	flushing bool
}

func New() *Graph {
	return &Graph{nodes: arena.New[node]()}
}

func (g *Graph) NewSignal(v float64) SignalID {
	return SignalID(g.nodes.Insert(node{kind: kindSource, value: v}))
}

// Derived returns a read-only signal computed by fn on demand.
func (g *Graph) Derived(fn func() float64) SignalID {
	return SignalID(g.nodes.Insert(node{kind: kindDerived, compute: fn, dirty: true}))
}

// Get reads a signal and, inside a derived or effect, records the
// dependency. Stale ids read as 0.
func (g *Graph) Get(id SignalID) float64 {
	h := arena.Handle(id)
	n, ok := g.nodes.Get(h)
	if !ok || n.kind == kindEffect {
		return 0
	}
	g.track(h)

	if n.kind == kindDerived && n.dirty {
		v := g.run(h, n.compute)
		if n, ok = g.nodes.Get(h); ok {
			n.value = v
			n.dirty = false
		}
		return v
	}
	return n.value
}

// Set writes a source signal. Unchanged values, derived signals and stale
// ids are ignored.
func (g *Graph) Set(id SignalID, v float64) {
	h := arena.Handle(id)
	n, ok := g.nodes.Get(h)
	if !ok || n.kind != kindSource || n.value == v {
		return
	}
	n.value = v
	g.invalidate(h)
	if g.batch == 0 {
		g.flush()
	}
}

// Effect runs fn now and again after any signal it read changes.
func (g *Graph) Effect(fn func()) EffectID {
	h := g.nodes.Insert(node{kind: kindEffect, effect: fn})
	g.run(h, func() float64 { fn(); return 0 })
	return EffectID(h)
}

// Dispose stops an effect or drops a signal. Readers of a dropped signal
// see 0 from then on.
func (g *Graph) Dispose(h arena.Handle) {
	n, ok := g.nodes.Get(h)
	if !ok {
		return
	}
	g.unlink(h, n.deps)
	g.nodes.Remove(h)
}

func (g *Graph) DisposeEffect(id EffectID) { g.Dispose(arena.Handle(id)) }
func (g *Graph) DisposeSignal(id SignalID) { g.Dispose(arena.Handle(id)) }

// Batch defers effects until fn returns; each affected effect runs once.
func (g *Graph) Batch(fn func()) {
	g.batch++
	defer func() {
		g.batch--
		if g.batch == 0 {
			g.flush()
		}
	}()
	fn()
}

func (g *Graph) Len() int { return g.nodes.Len() }

func (g *Graph) track(dep arena.Handle) {
	if len(g.stack) == 0 {
		return
	}
	obs := g.stack[len(g.stack)-1]
	o, ok := g.nodes.Get(obs)
	if !ok {
		return
	}
	for _, d := range o.deps {
		if d == dep {
			return
		}
	}
	o.deps = append(o.deps, dep)

	d, _ := g.nodes.Get(dep)
	if d.subs == nil {
		d.subs = make(map[arena.Handle]struct{})
	}
	d.subs[obs] = struct{}{}
}

// run evaluates fn with h as the tracking observer, replacing h's deps.
func (g *Graph) run(h arena.Handle, fn func() float64) float64 {
	if n, ok := g.nodes.Get(h); ok {
		g.unlink(h, n.deps)
		n.deps = nil
	}
	g.stack = append(g.stack, h)
	defer func() { g.stack = g.stack[:len(g.stack)-1] }()
	return fn()
}

func (g *Graph) unlink(h arena.Handle, deps []arena.Handle) {
	for _, dep := range deps {
		if d, ok := g.nodes.Get(dep); ok {
			delete(d.subs, h)
		}
	}
}

func (g *Graph) invalidate(h arena.Handle) {
	n, ok := g.nodes.Get(h)
	if !ok {
		return
	}
	for sub := range n.subs {
		s, ok := g.nodes.Get(sub)
		if !ok {
			continue
		}
		switch s.kind {
		case kindDerived:
			if !s.dirty {
				s.dirty = true
				g.invalidate(sub)
			}
		case kindEffect:
			if !s.queued {
				s.queued = true
				g.pending = append(g.pending, sub)
			}
		}
	}
}

func (g *Graph) flush() {
	if g.flushing {
		return
	}
	g.flushing = true
	defer func() { g.flushing = false }()

	for runs := 0; len(g.pending) > 0 && runs < maxFlush; runs++ {
		h := g.pending[0]
		g.pending = g.pending[1:]
		n, ok := g.nodes.Get(h)
		if !ok {
			continue
		}
		n.queued = false
		fn := n.effect
		g.run(h, func() float64 { fn(); return 0 })
	}
	for _, h := range g.pending {
		if n, ok := g.nodes.Get(h); ok {
			n.queued = false
		}
	}
	g.pending = g.pending[:0]
}
