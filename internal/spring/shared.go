package spring

import "sync"

// Shared is a spring guarded by a mutex. Every method holds the lock for
// exactly one operation.
type Shared struct {
	mu sync.Mutex
	s  Spring
}

// NewShared guards a clone of s, so the caller's copy shares no solver state
// with it.
func NewShared(s Spring) *Shared {
	return &Shared{s: s.Clone()}
}

func (sh *Shared) Value() float64 {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.s.Value()
}

func (sh *Shared) Velocity() float64 {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.s.Velocity()
}

func (sh *Shared) SetTarget(target float64) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.s.SetTarget(target)
}

func (sh *Shared) Step(dt float64) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.s.Step(dt)
}

func (sh *Shared) IsSettled() bool {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.s.IsSettled()
}

// Snapshot returns an independent copy of the guarded spring. Stepping it
// never touches the guarded spring's solver.
func (sh *Shared) Snapshot() Spring {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.s.Clone()
}

// With runs fn with the lock held. fn must not call back into sh.
func (sh *Shared) With(fn func(*Spring)) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	fn(&sh.s)
}
