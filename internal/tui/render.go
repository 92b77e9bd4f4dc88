package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/motionlab/internal/interp"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

func fg(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// Bar draws t in [0, 1] as a filled bar whose color moves from the theme's
// muted color toward its secondary color as it fills.
func Bar(t float64, width int, th Theme) string {
	t = interp.Clamp01(t)
	filled := int(t*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	color := interp.BlendHex(th.Muted, th.Secondary, t)
	return fg(color).Render(strings.Repeat("█", filled)) +
		fg(th.Muted).Render(strings.Repeat("░", width-filled))
}

// Sparkline draws the most recent width values, scaled to r.
func Sparkline(values []float64, r interp.Range, width int, th Theme) string {
	if len(values) == 0 {
		return fg(th.Muted).Render(strings.Repeat("─", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var b strings.Builder
	for _, v := range values {
		norm := r.Normalize(v)
		idx := int(norm * float64(len(sparkChars)-1))
		color := interp.BlendHex(th.Primary, th.Secondary, norm)
		b.WriteString(fg(color).Render(string(sparkChars[idx])))
	}
	if pad := width - len(values); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	return b.String()
}
