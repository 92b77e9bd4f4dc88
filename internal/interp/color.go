package interp

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

var fallback = colorful.Color{R: 1, G: 1, B: 1}

// ParseHex parses "#rrggbb", falling back to white.
func ParseHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return c
}

// BlendColor interpolates a to b in CIE-L*a*b* and clamps into sRGB.
func BlendColor(a, b colorful.Color, t float64) colorful.Color {
	return a.BlendLab(b, Clamp01(t)).Clamped()
}

// BlendHex is BlendColor on hex strings.
func BlendHex(a, b string, t float64) string {
	return Hex(BlendColor(ParseHex(a), ParseHex(b), t))
}

func Hex(c colorful.Color) string {
	return c.Clamped().Hex()
}
