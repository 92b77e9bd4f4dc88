package keyframe

import (
	"sort"
	"strings"

	"github.com/san-kum/motionlab/internal/easing"
)

const (
	DefaultSlideDistance  = 40.0
	DefaultShakeIntensity = 10.0
)

type Direction uint8

const (
	Left Direction = iota
	Right
	Top
	Bottom
)

// offset is the translation that places content off-screen in direction d.
func (d Direction) offset(distance float64) (x, y float64) {
	switch d {
	case Left:
		return -distance, 0
	case Right:
		return distance, 0
	case Top:
		return 0, -distance
	default:
		return 0, distance
	}
}

var (
	linear    = easing.Of(easing.Linear)
	easeIn    = easing.Of(easing.EaseIn)
	easeOut   = easing.Of(easing.EaseOut)
	easeInOut = easing.Of(easing.EaseInOut)
	inCubic   = easing.Of(easing.InCubic)
	outCubic  = easing.Of(easing.OutCubic)
)

func FadeIn(durationMs uint32) *Multi {
	return NewMulti(durationMs).
		Keyframe(0, Props{Opacity: 0}, linear).
		Keyframe(1, Props{Opacity: 1}, easeOut)
}

func FadeOut(durationMs uint32) *Multi {
	return NewMulti(durationMs).
		Keyframe(0, Props{Opacity: 1}, linear).
		Keyframe(1, Props{Opacity: 0}, easeIn)
}

func ScaleIn(durationMs uint32) *Multi {
	return NewMulti(durationMs).
		Keyframe(0, Props{Scale: 0, Opacity: 0}, linear).
		Keyframe(1, Props{Scale: 1, Opacity: 1}, outCubic)
}

func ScaleOut(durationMs uint32) *Multi {
	return NewMulti(durationMs).
		Keyframe(0, Props{Scale: 1, Opacity: 1}, linear).
		Keyframe(1, Props{Scale: 0, Opacity: 0}, inCubic)
}

// PopIn overshoots to 1.1 at 70% before settling at full scale.
func PopIn(durationMs uint32) *Multi {
	return NewMulti(durationMs).
		Keyframe(0, Props{Scale: 0, Opacity: 0}, linear).
		Keyframe(0.7, Props{Scale: 1.1, Opacity: 1}, easeOut).
		Keyframe(1, Props{Scale: 1, Opacity: 1}, easeInOut)
}

func SlideIn(dir Direction, durationMs uint32, distance float64) *Multi {
	x, y := dir.offset(distance)
	return NewMulti(durationMs).
		Keyframe(0, Props{TranslateX: x, TranslateY: y, Opacity: 0}, linear).
		Keyframe(1, Props{TranslateX: 0, TranslateY: 0, Opacity: 1}, outCubic)
}

func SlideOut(dir Direction, durationMs uint32, distance float64) *Multi {
	x, y := dir.offset(distance)
	return NewMulti(durationMs).
		Keyframe(0, Props{TranslateX: 0, TranslateY: 0, Opacity: 1}, linear).
		Keyframe(1, Props{TranslateX: x, TranslateY: y, Opacity: 0}, inCubic)
}

func BounceIn(durationMs uint32) *Multi {
	return NewMulti(durationMs).
		Keyframe(0, Props{Scale: 0, Opacity: 0}, linear).
		Keyframe(0.5, Props{Scale: 1.15, Opacity: 1}, easeOut).
		Keyframe(0.75, Props{Scale: 0.95, Opacity: 1}, easeInOut).
		Keyframe(1, Props{Scale: 1, Opacity: 1}, easeOut)
}

func Shake(durationMs uint32, intensity float64) *Multi {
	return NewMulti(durationMs).
		Keyframe(0, Props{TranslateX: 0}, linear).
		Keyframe(0.1, Props{TranslateX: -intensity}, easeOut).
		Keyframe(0.3, Props{TranslateX: intensity}, easeInOut).
		Keyframe(0.5, Props{TranslateX: -intensity * 0.8}, easeInOut).
		Keyframe(0.7, Props{TranslateX: intensity * 0.6}, easeInOut).
		Keyframe(0.9, Props{TranslateX: -intensity * 0.3}, easeInOut).
		Keyframe(1, Props{TranslateX: 0}, easeOut)
}

func Pulse(durationMs uint32) *Multi {
	return NewMulti(durationMs).
		Keyframe(0, Props{Scale: 1}, linear).
		Keyframe(0.5, Props{Scale: 1.1}, easeInOut).
		Keyframe(1, Props{Scale: 1}, easeInOut)
}

func Spin(durationMs uint32) *Multi {
	return NewMulti(durationMs).
		Keyframe(0, Props{Rotation: 0}, linear).
		Keyframe(1, Props{Rotation: 360}, linear)
}

var presets = map[string]func(uint32) *Multi{
	"fade_in":   FadeIn,
	"fade_out":  FadeOut,
	"scale_in":  ScaleIn,
	"scale_out": ScaleOut,
	"pop_in":    PopIn,
	"bounce_in": BounceIn,
	"pulse":     Pulse,
	"spin":      Spin,
	"shake": func(d uint32) *Multi {
		return Shake(d, DefaultShakeIntensity)
	},
}

var directions = map[string]Direction{
	"left":   Left,
	"right":  Right,
	"top":    Top,
	"bottom": Bottom,
}

// Preset builds a named preset. Slides are named slide_in_<dir> and
// slide_out_<dir> and use DefaultSlideDistance.
func Preset(name string, durationMs uint32) (*Multi, bool) {
	if fn, ok := presets[name]; ok {
		return fn(durationMs), true
	}
	for prefix, build := range map[string]func(Direction, uint32, float64) *Multi{
		"slide_in_":  SlideIn,
		"slide_out_": SlideOut,
	} {
		if dir, ok := directions[strings.TrimPrefix(name, prefix)]; ok && strings.HasPrefix(name, prefix) {
			return build(dir, durationMs, DefaultSlideDistance), true
		}
	}
	return nil, false
}

func PresetNames() []string {
	names := make([]string, 0, len(presets)+2*len(directions))
	for name := range presets {
		names = append(names, name)
	}
	for dir := range directions {
		names = append(names, "slide_in_"+dir, "slide_out_"+dir)
	}
	sort.Strings(names)
	return names
}
