// Package keyframe plays values through a sequence of keyframes placed at
// normalized times in [0, 1] of a fixed duration.
//
// The easing of a keyframe shapes the segment that ends at it. [Animation]
// drives one value; [Multi] drives several visual properties from one clock
// and backs the built-in presets ([FadeIn], [PopIn], [SlideIn], ...).
package keyframe

import (
	"math"
	"sort"

	"github.com/san-kum/motionlab/internal/easing"
)

type Keyframe struct {
	Time   float64
	Value  float64
	Easing easing.Easing
}

// clock is a one-shot millisecond clock that clamps at its duration.
type clock struct {
	duration float64
	current  float64
	playing  bool
}

func (c *clock) start() {
	c.current = 0
	c.playing = true
}

func (c *clock) tick(dtMs float64) {
	if !c.playing || math.IsNaN(dtMs) || math.IsInf(dtMs, 0) || dtMs <= 0 {
		return
	}
	c.current += dtMs
	if c.current >= c.duration {
		c.current = c.duration
		c.playing = false
	}
}

func (c *clock) progress() float64 {
	if c.duration <= 0 {
		return 1
	}
	p := c.current / c.duration
	if p > 1 {
		return 1
	}
	return p
}

type Animation struct {
	clock
	frames []Keyframe
}

// New returns a stopped animation. Frames are sorted by time; times are
// clamped into [0, 1].
func New(durationMs uint32, frames ...Keyframe) *Animation {
	return &Animation{
		clock:  clock{duration: float64(durationMs)},
		frames: sortFrames(frames),
	}
}

func (a *Animation) Start()             { a.start() }
func (a *Animation) Stop()              { a.playing = false }
func (a *Animation) Tick(dtMs float64)  { a.tick(dtMs) }
func (a *Animation) IsPlaying() bool    { return a.playing }
func (a *Animation) Progress() float64  { return a.progress() }
func (a *Animation) Duration() float64  { return a.duration }
func (a *Animation) Frames() []Keyframe { return a.frames }

// Value samples the keyframes at the current progress. An animation with
// no keyframes reports 0.
func (a *Animation) Value() float64 {
	v, _ := sample(a.frames, a.progress())
	return v
}

func sortFrames(frames []Keyframe) []Keyframe {
	out := make([]Keyframe, len(frames))
	copy(out, frames)
	for i := range out {
		out[i].Time = clamp01(out[i].Time)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

func sample(frames []Keyframe, p float64) (float64, bool) {
	if len(frames) == 0 {
		return 0, false
	}
	if p <= frames[0].Time {
		return frames[0].Value, true
	}
	last := frames[len(frames)-1]
	if p >= last.Time {
		return last.Value, true
	}

	i := sort.Search(len(frames), func(i int) bool { return frames[i].Time >= p })
	prev, next := frames[i-1], frames[i]
	span := next.Time - prev.Time
	if span <= 0 {
		return next.Value, true
	}
	eased := next.Easing.Apply((p - prev.Time) / span)
	return prev.Value + (next.Value-prev.Value)*eased, true
}

func clamp01(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
