// Package export renders scene traces as standalone SVG charts.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/motionlab/internal/interp"
	"github.com/san-kum/motionlab/internal/scene"
)

const (
	background = "#0a0a0a"
	firstColor = "#00ffff"
	lastColor  = "#ff00ff"
	legendLine = 14
)

type SVGOptions struct {
	Width  int
	Height int
	// Shared puts every column on one y scale. Otherwise each column is
	// scaled to its own range.
	Shared bool
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Height: 400}
}

// TraceSVG draws one path per trace column, colored from cyan to magenta
// in column order, with a legend in the top-left corner.
func TraceSVG(w io.Writer, tr *scene.Trace, opts SVGOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultSVGOptions()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, background))

	timeRange := interp.DefaultRange
	if n := len(tr.Times); n > 0 {
		timeRange = interp.SafeRange(tr.Times[0], tr.Times[n-1])
	}

	columns := make([][]float64, len(tr.Columns))
	for i, name := range tr.Columns {
		columns[i], _ = tr.Column(name)
	}
	shared := bounds(columns...)

	for i, name := range tr.Columns {
		color := columnColor(i, len(tr.Columns))
		r := shared
		if !opts.Shared {
			r = bounds(columns[i])
		}
		writePath(&sb, tr.Times, columns[i], timeRange, r, opts, color)
		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, (i+1)*legendLine, color, escape(name)))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writePath(sb *strings.Builder, times, values []float64, tr, vr interp.Range, opts SVGOptions, color string) {
	if len(values) < 2 {
		return
	}
	// 10% headroom so overshoot is not clipped by the frame
	pad := vr.Span() * 0.1
	vr = interp.Range{Min: vr.Min - pad, Max: vr.Max + pad}

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
	for i, v := range values {
		x := tr.Normalize(times[i]) * float64(opts.Width)
		y := float64(opts.Height) - vr.Normalize(v)*float64(opts.Height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}

func bounds(columns ...[]float64) interp.Range {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, col := range columns {
		for _, v := range col {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return interp.SafeRange(lo, hi)
}

func columnColor(i, n int) string {
	if n <= 1 {
		return firstColor
	}
	return interp.BlendHex(firstColor, lastColor, float64(i)/float64(n-1))
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string { return escaper.Replace(s) }
