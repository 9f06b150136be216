package components

import (
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/ui/theme"
)

const (
	// border (2) + padding (4)
	cabinetInset    = 6
	minContentWidth = 20
	maxContentWidth = 60
)

var (
	cabinetStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.Primary).
			Align(lipgloss.Center, lipgloss.Center)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Align(lipgloss.Center).
			Padding(1, 2)

	buttonStyle = lipgloss.NewStyle().
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	statLabelStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	statValueStyle = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
)

// ContentWidth is the inner width shared by every card on a cabinet screen,
// so stacked boxes line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-cabinetInset, minContentWidth), maxContentWidth)
}

// CabinetFrame draws the double border around a whole screen and centres
// content inside it.
func CabinetFrame(content string, width, height int) string {
	return cabinetStyle.Width(width - 2).Height(height - 2).Render(content)
}

// ArcadeCard boxes content at content width cw.
func ArcadeCard(content string, cw int) string {
	return cardStyle.Width(cw - 2).Render(content)
}

// ArcadeButton renders one menu button. The selected button is filled.
func ArcadeButton(label string, selected bool, width int) string {
	if selected {
		return buttonStyle.Width(width).
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	}
	return buttonStyle.Width(width).
		Foreground(theme.Text).
		BorderForeground(theme.Border).
		Render(label)
}

// StatRow renders "label  value" with the label padded to labelWidth.
func StatRow(label, value string, labelWidth int) string {
	return statLabelStyle.Width(labelWidth).Render(label) + statValueStyle.Render(value)
}
