package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles is the set of lipgloss styles derived from a theme.
type styles struct {
	canvas      lipgloss.Style
	particles   lipgloss.Style
	stats       lipgloss.Style
	header      lipgloss.Style
	label       lipgloss.Style
	value       lipgloss.Style
	activeParam lipgloss.Style
	graph       lipgloss.Style
	help        lipgloss.Style
	running     lipgloss.Style
	paused      lipgloss.Style
	recording   lipgloss.Style
	sparkHigh   lipgloss.Style
	sparkMid    lipgloss.Style
	sparkLow    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas:      lipgloss.NewStyle().Padding(1, 2),
		particles:   lipgloss.NewStyle().Foreground(t.Secondary),
		stats:       lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(42),
		header:      lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:       lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:       lipgloss.NewStyle().Foreground(t.Text),
		activeParam: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		graph:       lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		help:        lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		running:     lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		paused:      lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		recording:   lipgloss.NewStyle().Foreground(t.Error).Bold(true).Blink(true),
		sparkHigh:   lipgloss.NewStyle().Foreground(t.Success),
		sparkMid:    lipgloss.NewStyle().Foreground(t.Warning),
		sparkLow:    lipgloss.NewStyle().Foreground(t.Error),
	}
}

// AnimatedSpinner returns frame of animated spinner
func AnimatedSpinner(frame int) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%len(spinners)]
}

// ProgressBar renders a fill ratio as a block bar. percent is clamped to [0, 1].
func (s styles) ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.8 {
		return s.sparkLow.Render(bar)
	} else if percent > 0.4 {
		return s.sparkMid.Render(bar)
	}
	return s.sparkHigh.Render(bar)
}

// sparkline maps values onto the eight block characters, sampling to fit
// width. It returns plain runes so callers can style or test them.
func sparkline(values []float64, width int) []rune {
	if len(values) == 0 || width <= 0 {
		return nil
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	// keep the most recent samples when there are more than fit
	if len(values) > width {
		values = values[len(values)-width:]
	}

	out := make([]rune, len(values))
	for i, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[i] = chars[idx]
	}
	return out
}

// SparklineChart renders a mini sparkline from values
func (s styles) SparklineChart(values []float64, width int) string {
	runes := sparkline(values, width)
	if runes == nil {
		return strings.Repeat("─", width)
	}

	var result strings.Builder
	for _, c := range runes {
		switch {
		case c >= '▇':
			result.WriteString(s.sparkLow.Render(string(c)))
		case c >= '▄':
			result.WriteString(s.sparkMid.Render(string(c)))
		default:
			result.WriteString(s.sparkHigh.Render(string(c)))
		}
	}
	return result.String()
}

// Separator draws a muted horizontal rule.
func (s styles) Separator(width int) string {
	return s.help.UnsetMarginTop().Render(strings.Repeat("─", width))
}
