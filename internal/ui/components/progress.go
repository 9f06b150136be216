package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // " 100%"
	}

	filled, empty := split(p.Width-labelWidth-percentWidth, p.Percent)
	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	return result
}

// TimerBar renders the per-question countdown as a shrinking bar followed
// by the seconds left. The bar turns red for the last few ticks.
func TimerBar(remaining, total, width int) string {
	frac := 0.0
	if total > 0 {
		frac = float64(remaining) / float64(total)
	}
	suffix := fmt.Sprintf("  %2ds", remaining)
	filled, empty := split(width-lipgloss.Width(suffix), frac)

	fill := theme.ProgressFilled
	if remaining <= 3 {
		fill = theme.TimerLow
	}
	return fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
}

func split(width int, frac float64) (filled, empty int) {
	if width < 4 {
		width = 4
	}
	filled = int(float64(width) * frac)
	filled = max(0, min(filled, width))
	return filled, width - filled
}
