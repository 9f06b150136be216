package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/screens/welcome"
	"github.com/quizziebot/quizzie/internal/ui/components"
	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := strings.TrimPrefix(welcome.BannerArt, "\n")
	if compact {
		title = welcome.BannerCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// stats is what the stats bar shows.
type stats struct {
	username    string
	score       int
	quizzes     int
	recommended int
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(st stats, cw int, compact bool) string {
	userStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	scoreStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	quizStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var parts []string
	if st.username == "" {
		parts = append(parts, dimStyle.Render("GUEST"))
	} else if compact {
		parts = append(parts, scoreStyle.Render(fmt.Sprintf("★%d", st.score)))
	} else {
		parts = append(parts,
			userStyle.Render(strings.ToUpper(st.username)),
			scoreStyle.Render(fmt.Sprintf("★ %d", st.score)))
	}

	if compact {
		parts = append(parts, quizStyle.Render(fmt.Sprintf("◆%d", st.quizzes)))
	} else {
		parts = append(parts, quizStyle.Render(fmt.Sprintf("◆ %d QUIZZES", st.quizzes)))
	}
	if st.username != "" {
		parts = append(parts, recommendedText(st.recommended, compact, userStyle, dimStyle))
	}

	sep := "  "
	if compact {
		sep = " "
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(strings.Join(parts, sep))
}

func recommendedText(n int, compact bool, active, dim lipgloss.Style) string {
	if n == 0 {
		if compact {
			return dim.Render("⚡0")
		}
		return dim.Render("⚡ NO PICKS YET")
	}
	if compact {
		return active.Render(fmt.Sprintf("⚡%d", n))
	}
	return active.Render(fmt.Sprintf("⚡ %d FOR YOU", n))
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	disabledBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, label := range items {
		if disabled[i] {
			buttons = append(buttons, disabledBtn.Render(label))
		} else {
			buttons = append(buttons, components.ArcadeButton(label, i == selected, buttonWidth))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderArcadeMenuCompact renders menu items as simple text lines (no borders)
// for very small terminals where bordered buttons would overflow.
func renderArcadeMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		var line string
		if disabled[i] {
			line = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("   " + label)
		} else if i == selected {
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + label + " ")
		} else {
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(renderMascot(variant))
}

// renderUpdateNote renders a dim one-line update notification.
func renderUpdateNote(latestVersion string, cw int) string {
	text := fmt.Sprintf("New version %s available · run quizzie update", latestVersion)
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

// renderAlert renders a load failure above the menu.
func renderAlert(msg string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Error).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + msg)
}
