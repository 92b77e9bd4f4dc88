package timeline

import "sync"

// Shared is a timeline guarded by a mutex. Each method holds the lock for one
// operation and never across calls.
type Shared struct {
	mu sync.Mutex
	tl *Timeline
}

func NewShared(tl *Timeline) *Shared {
	if tl == nil {
		tl = New()
	}
	return &Shared{tl: tl}
}

func (s *Shared) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tl.Start()
}

func (s *Shared) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tl.Restart()
}

func (s *Shared) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tl.Stop()
}

func (s *Shared) Tick(dtMs float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tl.Tick(dtMs)
}

func (s *Shared) Value(id EntryID) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tl.Value(id)
}

func (s *Shared) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tl.Progress()
}

func (s *Shared) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tl.IsPlaying()
}

// With runs fn with the lock held. fn must not call back into s.
func (s *Shared) With(fn func(*Timeline)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.tl)
}
