package timeline

import (
	"math"

	"github.com/san-kum/motionlab/internal/arena"
	"github.com/san-kum/motionlab/internal/easing"
)

// LoopInfinite as a loop count repeats until stopped.
const LoopInfinite int32 = -1

type EntryID arena.Handle

type Entry struct {
	Offset   int32
	Duration uint32
	Start    float64
	End      float64
	Easing   easing.Easing
}

// end is the clock time at which the entry finishes, never before 0.
func (e *Entry) end() int64 {
	off := int64(e.Offset)
	if off < 0 {
		off = 0
	}
	return off + int64(e.Duration)
}

func (e *Entry) localProgress(now float64) float64 {
	local := now - float64(e.Offset)
	if local < 0 {
		return 0
	}
	if local >= float64(e.Duration) {
		return 1
	}
	return local / float64(e.Duration)
}

type State uint8

const (
	Idle State = iota
	Playing
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

type Timeline struct {
	entries *arena.Arena[Entry]
	order   []EntryID

	currentTime   float64
	totalDuration uint32
	playing       bool
	started       bool
	finished      bool

	loopCount   int32
	currentLoop int32
	alternate   bool
	reversed    bool
	rate        float64
}

func New() *Timeline {
	return &Timeline{
		entries: arena.New[Entry](),
		rate:    1,
	}
}

// Add appends a linear entry and extends the total duration to cover it.
func (tl *Timeline) Add(offset int32, duration uint32, start, end float64) EntryID {
	return tl.AddWithEasing(offset, duration, start, end, easing.Of(easing.Linear))
}

func (tl *Timeline) AddWithEasing(offset int32, duration uint32, start, end float64, e easing.Easing) EntryID {
	entry := Entry{Offset: offset, Duration: duration, Start: start, End: end, Easing: e}
	id := EntryID(tl.entries.Insert(entry))
	tl.order = append(tl.order, id)

	if total := clampDuration(entry.end()); total > tl.totalDuration {
		tl.totalDuration = total
	}
	return id
}

// Remove deletes an entry, shrinking the total duration if it was the last
// to finish. The clock is clamped into the new range.
func (tl *Timeline) Remove(id EntryID) bool {
	if _, ok := tl.entries.Remove(arena.Handle(id)); !ok {
		return false
	}
	for i, other := range tl.order {
		if other == id {
			tl.order = append(tl.order[:i], tl.order[i+1:]...)
			break
		}
	}

	var total int64
	tl.entries.Each(func(_ arena.Handle, e *Entry) {
		if end := e.end(); end > total {
			total = end
		}
	})
	tl.totalDuration = clampDuration(total)
	if tl.currentTime > float64(tl.totalDuration) {
		tl.currentTime = float64(tl.totalDuration)
	}
	return true
}

func (tl *Timeline) Entry(id EntryID) (Entry, bool) {
	e, ok := tl.entries.Get(arena.Handle(id))
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// EntryIDs returns live entry handles in insertion order.
func (tl *Timeline) EntryIDs() []EntryID {
	out := make([]EntryID, len(tl.order))
	copy(out, tl.order)
	return out
}

func (tl *Timeline) Len() int         { return tl.entries.Len() }
func (tl *Timeline) HasEntries() bool { return tl.entries.Len() > 0 }

func (tl *Timeline) Start() {
	if tl.reversed {
		tl.currentTime = float64(tl.totalDuration)
	} else {
		tl.currentTime = 0
	}
	tl.currentLoop = 0
	tl.playing = true
	tl.started = true
	tl.finished = false
}

func (tl *Timeline) Restart() { tl.Start() }

func (tl *Timeline) Stop()  { tl.playing = false }
func (tl *Timeline) Pause() { tl.playing = false }

func (tl *Timeline) Resume() {
	tl.playing = true
	tl.started = true
	tl.finished = false
}

func (tl *Timeline) Reverse()         { tl.reversed = !tl.reversed }
func (tl *Timeline) IsReversed() bool { return tl.reversed }

// Seek moves the clock to t clamped into [0, total]. NaN is ignored.
func (tl *Timeline) Seek(t float64) {
	if math.IsNaN(t) {
		return
	}
	tl.currentTime = clamp(t, 0, float64(tl.totalDuration))
}

// SetLoop sets the total number of plays: -1 infinite, 0 a single pass,
// n > 0 n plays. Anything below -1 is treated as -1.
func (tl *Timeline) SetLoop(count int32) {
	if count < LoopInfinite {
		count = LoopInfinite
	}
	tl.loopCount = count
}

func (tl *Timeline) Loop() int32        { return tl.loopCount }
func (tl *Timeline) CurrentLoop() int32 { return tl.currentLoop }

func (tl *Timeline) SetAlternate(enabled bool) { tl.alternate = enabled }
func (tl *Timeline) Alternate() bool           { return tl.alternate }

// SetPlaybackRate clamps negative or non-finite rates to 0. A zero rate
// freezes the clock while leaving the timeline playing.
func (tl *Timeline) SetPlaybackRate(rate float64) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		rate = 0
	}
	tl.rate = rate
}

func (tl *Timeline) PlaybackRate() float64 { return tl.rate }

// Tick advances the clock by dtMs milliseconds scaled by the playback rate.
func (tl *Timeline) Tick(dtMs float64) {
	if !tl.playing || math.IsNaN(dtMs) || math.IsInf(dtMs, 0) || dtMs <= 0 {
		return
	}
	adjusted := dtMs * tl.rate
	if adjusted == 0 {
		return
	}

	total := float64(tl.totalDuration)
	if tl.reversed {
		tl.currentTime -= adjusted
		if tl.currentTime <= 0 {
			tl.handleBoundary(0)
		}
	} else {
		tl.currentTime += adjusted
		if tl.currentTime >= total {
			tl.handleBoundary(total)
		}
	}
}

func (tl *Timeline) handleBoundary(boundary float64) {
	shouldLoop := tl.loopCount == LoopInfinite || tl.currentLoop < tl.loopCount-1
	if !shouldLoop {
		tl.currentTime = boundary
		tl.playing = false
		tl.finished = true
		return
	}

	if tl.currentLoop < math.MaxInt32 {
		tl.currentLoop++
	}
	if tl.alternate {
		tl.reversed = !tl.reversed
		tl.currentTime = boundary
		return
	}
	if tl.reversed {
		tl.currentTime = float64(tl.totalDuration)
	} else {
		tl.currentTime = 0
	}
}

// Value returns the eased value of an entry at the current time.
func (tl *Timeline) Value(id EntryID) (float64, bool) {
	e, ok := tl.entries.Get(arena.Handle(id))
	if !ok {
		return 0, false
	}
	local := tl.currentTime - float64(e.Offset)
	if local < 0 {
		return e.Start, true
	}
	if local >= float64(e.Duration) {
		return e.End, true
	}
	t := e.Easing.Apply(local / float64(e.Duration))
	return e.Start + (e.End-e.Start)*t, true
}

// EntryProgress returns the raw progress of an entry in [0, 1], before easing.
func (tl *Timeline) EntryProgress(id EntryID) (float64, bool) {
	e, ok := tl.entries.Get(arena.Handle(id))
	if !ok {
		return 0, false
	}
	return e.localProgress(tl.currentTime), true
}

// Progress is current time over total duration, or 1 for an empty timeline.
func (tl *Timeline) Progress() float64 {
	if tl.totalDuration == 0 {
		return 1
	}
	return tl.currentTime / float64(tl.totalDuration)
}

func (tl *Timeline) CurrentTime() float64  { return tl.currentTime }
func (tl *Timeline) TotalDuration() uint32 { return tl.totalDuration }
func (tl *Timeline) IsPlaying() bool       { return tl.playing }

func (tl *Timeline) State() State {
	switch {
	case tl.playing:
		return Playing
	case tl.finished:
		return Finished
	case tl.started:
		return Paused
	default:
		return Idle
	}
}

func clampDuration(v int64) uint32 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
