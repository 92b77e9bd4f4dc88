// Package easing maps normalized progress t in [0, 1] to eased progress.
//
// An [Easing] is a small value type: a [Kind] plus, for [CubicBezier], four
// control points. The zero Easing is [Linear]. All curves are pure functions;
// inputs outside [0, 1] are clamped before evaluation.
//
// The standard Penner curves come from github.com/fogleman/ease, the OutIn
// variants from github.com/tanema/gween/ease:
//
//	e, _ := easing.Parse("ease_in_out")
//	eased := e.Apply(0.25)
package easing

import (
	"fmt"
	"math"

	"github.com/fogleman/ease"
	tween "github.com/tanema/gween/ease"
)

// Func is a normalized easing curve.
type Func func(t float64) float64

type Kind uint8

const (
	Linear Kind = iota
	EaseIn
	EaseOut
	EaseInOut
	InQuad
	OutQuad
	InOutQuad
	InCubic
	OutCubic
	InOutCubic
	InQuart
	OutQuart
	InOutQuart
	InSine
	OutSine
	InOutSine
	InExpo
	OutExpo
	InOutExpo
	InBack
	OutBack
	InOutBack
	InElastic
	OutElastic
	InOutElastic
	InBounce
	OutBounce
	InOutBounce
	OutInQuad
	OutInCubic
	OutInElastic
	OutInBounce
	CubicBezier
)

// Easing selects a curve. Bezier control points are only read for CubicBezier.
type Easing struct {
	Kind           Kind
	X1, Y1, X2, Y2 float64
}

// Of returns the Easing for a non-bezier kind.
func Of(k Kind) Easing { return Easing{Kind: k} }

// Bezier returns a CSS-style cubic-bezier(x1, y1, x2, y2) easing. As in
// CSS, x1 and x2 are clamped into [0, 1] so x(u) stays monotonic. Any
// non-finite control point gives Linear.
func Bezier(x1, y1, x2, y2 float64) Easing {
	if !finite(x1) || !finite(y1) || !finite(x2) || !finite(y2) {
		return Easing{}
	}
	return Easing{Kind: CubicBezier, X1: clamp01(x1), Y1: y1, X2: clamp01(x2), Y2: y2}
}

var curves = map[Kind]Func{
	Linear:       func(t float64) float64 { return t },
	EaseIn:       ease.InCubic,
	EaseOut:      ease.OutCubic,
	EaseInOut:    ease.InOutCubic,
	InQuad:       ease.InQuad,
	OutQuad:      ease.OutQuad,
	InOutQuad:    ease.InOutQuad,
	InCubic:      ease.InCubic,
	OutCubic:     ease.OutCubic,
	InOutCubic:   ease.InOutCubic,
	InQuart:      ease.InQuart,
	OutQuart:     ease.OutQuart,
	InOutQuart:   ease.InOutQuart,
	InSine:       ease.InSine,
	OutSine:      ease.OutSine,
	InOutSine:    ease.InOutSine,
	InExpo:       ease.InExpo,
	OutExpo:      ease.OutExpo,
	InOutExpo:    ease.InOutExpo,
	InBack:       ease.InBack,
	OutBack:      ease.OutBack,
	InOutBack:    ease.InOutBack,
	InElastic:    ease.InElastic,
	OutElastic:   ease.OutElastic,
	InOutElastic: ease.InOutElastic,
	InBounce:     ease.InBounce,
	OutBounce:    ease.OutBounce,
	InOutBounce:  ease.InOutBounce,
	OutInQuad:    FromTween(tween.OutInQuad),
	OutInCubic:   FromTween(tween.OutInCubic),
	OutInElastic: FromTween(tween.OutInElastic),
	OutInBounce:  FromTween(tween.OutInBounce),
}

// Apply evaluates the curve at t. NaN is treated as 0.
func (e Easing) Apply(t float64) float64 {
	t = clamp01(t)
	if e.Kind == CubicBezier {
		// literals bypass Bezier; repair them the same way
		b := Bezier(e.X1, e.Y1, e.X2, e.Y2)
		if b.Kind != CubicBezier {
			return t
		}
		return bezierEase(t, b.X1, b.Y1, b.X2, b.Y2)
	}
	fn, ok := curves[e.Kind]
	if !ok {
		return t
	}
	return fn(t)
}

// Func returns the curve as a plain function.
func (e Easing) Func() Func { return e.Apply }

// FromTween adapts a gween curve, which maps (elapsed, begin, change,
// duration) to a value, into a normalized curve.
func FromTween(fn tween.TweenFunc) Func {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
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

// bezierEase solves x(u) = t with Newton-Raphson, then samples y(u).
func bezierEase(t, x1, y1, x2, y2 float64) float64 {
	guess := t
	for i := 0; i < 8; i++ {
		x := bezierSample(guess, x1, x2) - t
		if math.Abs(x) < 1e-3 {
			break
		}
		dx := bezierSlope(guess, x1, x2)
		if math.Abs(dx) < 1e-6 {
			break
		}
		guess -= x / dx
	}
	return bezierSample(guess, y1, y2)
}

func bezierSample(t, p1, p2 float64) float64 {
	mt := 1 - t
	return 3*mt*mt*t*p1 + 3*mt*t*t*p2 + t*t*t
}

func bezierSlope(t, p1, p2 float64) float64 {
	mt := 1 - t
	return 3*mt*mt*p1 + 6*mt*t*(p2-p1) + 3*t*t*(1-p2)
}

func (e Easing) String() string {
	if e.Kind == CubicBezier {
		return fmt.Sprintf("cubic_bezier(%g,%g,%g,%g)", e.X1, e.Y1, e.X2, e.Y2)
	}
	if name, ok := kindNames[e.Kind]; ok {
		return name
	}
	return fmt.Sprintf("easing(%d)", e.Kind)
}
