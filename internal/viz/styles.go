package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles derives the report styles from a theme.
type styles struct {
	panel     lipgloss.Style
	title     lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	hint      lipgloss.Style
	converged lipgloss.Style
	truncated lipgloss.Style
	failed    lipgloss.Style
	high      lipgloss.Style
	mid       lipgloss.Style
	low       lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 2),
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		label:     lipgloss.NewStyle().Foreground(t.Muted),
		value:     lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		hint:      lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		converged: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		truncated: lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		failed:    lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		high:      lipgloss.NewStyle().Foreground(t.Success),
		mid:       lipgloss.NewStyle().Foreground(t.Warning),
		low:       lipgloss.NewStyle().Foreground(t.Error),
	}
}

// Sparkline renders values as a one-line bar chart sampled down to width.
func Sparkline(values []float64, width int) string {
	return newStyles(CurrentTheme).sparkline(values, width)
}

func (s styles) sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(s.high.Render(c))
		case norm > 0.3:
			result.WriteString(s.mid.Render(c))
		default:
			result.WriteString(s.low.Render(c))
		}
	}

	return result.String()
}

func separator(s styles, width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return s.label.Render(left + " ◆ " + right)
}
