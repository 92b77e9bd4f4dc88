package interp

import (
	"math"
	"testing"
)

func TestSafeRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		want     Range
	}{
		{"ordered", 2, 5, Range{2, 5}},
		{"swapped", 5, 2, Range{2, 5}},
		{"degenerate", 3, 3, Range{2, 4}},
		{"nan", math.NaN(), 1, DefaultRange},
		{"inf", 0, math.Inf(1), DefaultRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeRange(tt.min, tt.max); got != tt.want {
				t.Errorf("SafeRange(%v, %v) = %+v, want %+v", tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	r := SafeRange(10, 20)
	if r.Normalize(15) != 0.5 {
		t.Errorf("Normalize(15) = %f", r.Normalize(15))
	}
	if r.Normalize(-5) != 0 || r.Normalize(50) != 1 {
		t.Error("Normalize should clamp")
	}
	if r.Denormalize(0.25) != 12.5 {
		t.Errorf("Denormalize(0.25) = %f", r.Denormalize(0.25))
	}
	if r.Clamp(math.NaN()) != 10 || r.Clamp(25) != 20 {
		t.Error("Clamp failed")
	}
}

func TestLerpClamp(t *testing.T) {
	if Lerp(0, 10, 0.3) != 3 {
		t.Error("Lerp")
	}
	if Clamp01(math.NaN()) != 0 || Clamp01(-1) != 0 || Clamp01(2) != 1 {
		t.Error("Clamp01")
	}
}

func TestBlendColor(t *testing.T) {
	if got := BlendHex("#ff0000", "#0000ff", 0); got != "#ff0000" {
		t.Errorf("t=0 gives %s", got)
	}
	if got := BlendHex("#ff0000", "#0000ff", 1); got != "#0000ff" {
		t.Errorf("t=1 gives %s", got)
	}
	if got := BlendHex("#ff0000", "#0000ff", 7); got != "#0000ff" {
		t.Errorf("t beyond 1 should clamp, got %s", got)
	}
	if got := BlendHex("not a color", "#ffffff", 0.5); got != "#ffffff" {
		t.Errorf("bad input should fall back to white, got %s", got)
	}
}
