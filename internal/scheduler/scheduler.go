package scheduler

import (
	"github.com/san-kum/motionlab/internal/arena"
	"github.com/san-kum/motionlab/internal/keyframe"
	"github.com/san-kum/motionlab/internal/spring"
	"github.com/san-kum/motionlab/internal/timeline"
)

type (
	SpringID   arena.Handle
	TimelineID arena.Handle
	KeyframeID arena.Handle
)

// FrameFunc observes a completed frame.
type FrameFunc func(s *Scheduler, dtMs float64)

type Scheduler struct {
	springs   *arena.Arena[spring.Spring]
	timelines *arena.Arena[*timeline.Timeline]
	keyframes *arena.Arena[*keyframe.Multi]

	observers []FrameFunc
	redraw    func()
}

func New() *Scheduler {
	return &Scheduler{
		springs:   arena.New[spring.Spring](),
		timelines: arena.New[*timeline.Timeline](),
		keyframes: arena.New[*keyframe.Multi](),
	}
}

// OnRedraw sets the callback raised after a frame that leaves anything
// still animating.
func (s *Scheduler) OnRedraw(fn func()) { s.redraw = fn }

// Observe registers fn to run after every frame, before the redraw request.
func (s *Scheduler) Observe(fn FrameFunc) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

// AddSpring stores a clone of sp; the caller's copy keeps its own solver.
func (s *Scheduler) AddSpring(sp spring.Spring) SpringID {
	return SpringID(s.springs.Insert(sp.Clone()))
}

func (s *Scheduler) RemoveSpring(id SpringID) bool {
	_, ok := s.springs.Remove(arena.Handle(id))
	return ok
}

// Spring returns an independent copy of the spring behind id.
func (s *Scheduler) Spring(id SpringID) (spring.Spring, bool) {
	sp, ok := s.springs.Get(arena.Handle(id))
	if !ok {
		return spring.Spring{}, false
	}
	return sp.Clone(), true
}

// WithSpring runs fn on the spring behind id. A stale id is a no-op.
func (s *Scheduler) WithSpring(id SpringID, fn func(*spring.Spring)) bool {
	sp, ok := s.springs.Get(arena.Handle(id))
	if !ok {
		return false
	}
	fn(sp)
	return true
}

func (s *Scheduler) SpringValue(id SpringID) (float64, bool) {
	sp, ok := s.springs.Get(arena.Handle(id))
	if !ok {
		return 0, false
	}
	return sp.Value(), true
}

func (s *Scheduler) AddTimeline(tl *timeline.Timeline) TimelineID {
	if tl == nil {
		tl = timeline.New()
	}
	return TimelineID(s.timelines.Insert(tl))
}

func (s *Scheduler) RemoveTimeline(id TimelineID) bool {
	_, ok := s.timelines.Remove(arena.Handle(id))
	return ok
}

func (s *Scheduler) WithTimeline(id TimelineID, fn func(*timeline.Timeline)) bool {
	tl, ok := s.timelines.Get(arena.Handle(id))
	if !ok {
		return false
	}
	fn(*tl)
	return true
}

func (s *Scheduler) TimelineValue(id TimelineID, entry timeline.EntryID) (float64, bool) {
	tl, ok := s.timelines.Get(arena.Handle(id))
	if !ok {
		return 0, false
	}
	return (*tl).Value(entry)
}

func (s *Scheduler) AddKeyframe(m *keyframe.Multi) KeyframeID {
	if m == nil {
		m = keyframe.NewMulti(0)
	}
	return KeyframeID(s.keyframes.Insert(m))
}

func (s *Scheduler) RemoveKeyframe(id KeyframeID) bool {
	_, ok := s.keyframes.Remove(arena.Handle(id))
	return ok
}

func (s *Scheduler) WithKeyframe(id KeyframeID, fn func(*keyframe.Multi)) bool {
	m, ok := s.keyframes.Get(arena.Handle(id))
	if !ok {
		return false
	}
	fn(*m)
	return true
}

func (s *Scheduler) KeyframeValue(id KeyframeID, p keyframe.Property) (float64, bool) {
	m, ok := s.keyframes.Get(arena.Handle(id))
	if !ok {
		return 0, false
	}
	return (*m).Value(p)
}

func (s *Scheduler) SpringCount() int   { return s.springs.Len() }
func (s *Scheduler) TimelineCount() int { return s.timelines.Len() }
func (s *Scheduler) KeyframeCount() int { return s.keyframes.Len() }

// Tick advances every spring, timeline and keyframe animation by the same
// dtMs milliseconds and reports whether anything is still animating.
func (s *Scheduler) Tick(dtMs float64) bool {
	dt := dtMs / 1000
	s.springs.Each(func(_ arena.Handle, sp *spring.Spring) {
		sp.Step(dt)
	})
	s.timelines.Each(func(_ arena.Handle, tl **timeline.Timeline) {
		(*tl).Tick(dtMs)
	})
	s.keyframes.Each(func(_ arena.Handle, m **keyframe.Multi) {
		(*m).Tick(dtMs)
	})

	for _, fn := range s.observers {
		fn(s, dtMs)
	}

	active := s.HasActiveAnimations()
	if active && s.redraw != nil {
		s.redraw()
	}
	return active
}

// HasActiveAnimations reports whether any spring is unsettled or any
// timeline or keyframe animation is playing.
func (s *Scheduler) HasActiveAnimations() bool {
	if s.springs.Any(func(sp *spring.Spring) bool { return !sp.IsSettled() }) {
		return true
	}
	if s.timelines.Any(func(tl **timeline.Timeline) bool { return (*tl).IsPlaying() }) {
		return true
	}
	return s.keyframes.Any(func(m **keyframe.Multi) bool { return (*m).IsPlaying() })
}

// SpringRef addresses one scheduler spring. It is only valid on the
// goroutine that owns the scheduler.
type SpringRef struct {
	s  *Scheduler
	id SpringID
}

func (s *Scheduler) SpringTarget(id SpringID) SpringRef {
	return SpringRef{s: s, id: id}
}

// SetTarget retargets the spring, or does nothing if it has been removed.
func (r SpringRef) SetTarget(v float64) {
	r.s.WithSpring(r.id, func(sp *spring.Spring) { sp.SetTarget(v) })
}

func (r SpringRef) Value() (float64, bool) { return r.s.SpringValue(r.id) }
func (r SpringRef) ID() SpringID           { return r.id }
