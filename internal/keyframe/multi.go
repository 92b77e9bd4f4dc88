package keyframe

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/motionlab/internal/easing"
)

var ErrUnknownProperty = errors.New("keyframe: unknown property")

type Property uint8

const (
	Opacity Property = iota
	Scale
	ScaleX
	ScaleY
	TranslateX
	TranslateY
	Rotation
)

var propertyNames = map[Property]string{
	Opacity:    "opacity",
	Scale:      "scale",
	ScaleX:     "scale_x",
	ScaleY:     "scale_y",
	TranslateX: "translate_x",
	TranslateY: "translate_y",
	Rotation:   "rotation",
}

func (p Property) String() string {
	if name, ok := propertyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("property(%d)", p)
}

func ParseProperty(name string) (Property, error) {
	for p, n := range propertyNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
}

// Props is the set of property values at one keyframe.
type Props map[Property]float64

// Multi animates several properties on one clock. Each property is
// interpolated only between keyframes that set it.
type Multi struct {
	clock
	tracks map[Property][]Keyframe
}

func NewMulti(durationMs uint32) *Multi {
	return &Multi{
		clock:  clock{duration: float64(durationMs)},
		tracks: make(map[Property][]Keyframe),
	}
}

// Keyframe adds props at normalized time t, reached with easing e.
func (m *Multi) Keyframe(t float64, props Props, e easing.Easing) *Multi {
	for p, v := range props {
		m.tracks[p] = sortFrames(append(m.tracks[p], Keyframe{Time: t, Value: v, Easing: e}))
	}
	return m
}

func (m *Multi) Start()            { m.start() }
func (m *Multi) Stop()             { m.playing = false }
func (m *Multi) Tick(dtMs float64) { m.tick(dtMs) }
func (m *Multi) IsPlaying() bool   { return m.playing }
func (m *Multi) Progress() float64 { return m.progress() }
func (m *Multi) Duration() float64 { return m.duration }

// Value reports the current value of p, or false when no keyframe sets it.
func (m *Multi) Value(p Property) (float64, bool) {
	return sample(m.tracks[p], m.progress())
}

// Properties lists animated properties in declaration order of the enum.
func (m *Multi) Properties() []Property {
	out := make([]Property, 0, len(m.tracks))
	for p := range m.tracks {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
