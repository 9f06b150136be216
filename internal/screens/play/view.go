package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/session"
	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// renderStatusLine shows question number and score across the top.
func renderStatusLine(p session.Progress, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", p.Index+1, p.Total))
	right := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render(fmt.Sprintf("★ %d  ", p.Score))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func renderQuestionText(text string, width int) string {
	return lipgloss.NewStyle().
		Width(min(width-8, 70)).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(text)
}

// renderPlayFrame stacks the status line and rule above the timer and the
// centered question body.
func renderPlayFrame(status, timer, body string, width, height int) string {
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
	top := status + "\n" + rule + "\n\n" +
		lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(timer)
	rest := max(height-lipgloss.Height(top)-1, 0)
	return top + "\n" + lipgloss.Place(width, rest, lipgloss.Center, lipgloss.Center, body)
}

func renderQuitConfirm(width, height int, p session.Progress) string {
	msg := theme.Body.Bold(true).Render("Leave this quiz?") + "\n\n" +
		theme.Hint.Render(fmt.Sprintf("Your progress (%d of %d answered) will be lost.", p.Answered, p.Total)) + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Render("Y to leave · N to keep playing")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

func renderError(width, height int, msg string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Alert.Render(msg)+"\n\n"+theme.Hint.Render("Press Esc to go back"))
}
