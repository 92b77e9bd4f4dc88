// Package interp holds interpolation helpers that never fail: bad ranges are
// repaired rather than rejected.
package interp

import "math"

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func Clamp01(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Range is a non-degenerate, ordered, finite interval.
type Range struct {
	Min, Max float64
}

var DefaultRange = Range{Min: 0, Max: 1}

// SafeRange repairs [min, max]: non-finite bounds give DefaultRange,
// swapped bounds are ordered, and an empty span is widened by 1 each way.
func SafeRange(min, max float64) Range {
	if !finite(min) || !finite(max) {
		return DefaultRange
	}
	if min > max {
		min, max = max, min
	}
	if min == max {
		min, max = min-1, max+1
	}
	return Range{Min: min, Max: max}
}

func (r Range) Span() float64 { return r.Max - r.Min }

// Normalize maps v into [0, 1] relative to r, clamping.
func (r Range) Normalize(v float64) float64 {
	return Clamp01((v - r.Min) / r.Span())
}

func (r Range) Denormalize(t float64) float64 {
	return Lerp(r.Min, r.Max, Clamp01(t))
}

func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
