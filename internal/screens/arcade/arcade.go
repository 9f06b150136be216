// Package arcade lists a handful of quizzes to jump into.
package arcade

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/quiz"
	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/screens/play"
	"github.com/quizziebot/quizzie/internal/ui/components"
	"github.com/quizziebot/quizzie/internal/ui/layout"
	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// MaxQuizzes is how many quizzes the arcade shows.
const MaxQuizzes = 5

// ArcadeScreen shows the first few quizzes as cabinet buttons.
type ArcadeScreen struct {
	deps    *deps.Deps
	title   string
	quizzes []quiz.Quiz
	menu    components.Menu
}

var (
	_ screen.Screen          = (*ArcadeScreen)(nil)
	_ screen.KeyHintProvider = (*ArcadeScreen)(nil)
)

// New shows up to MaxQuizzes of quizzes. Selecting one fetches its
// questions and starts playing.
func New(d *deps.Deps, title string, quizzes []quiz.Quiz) *ArcadeScreen {
	if len(quizzes) > MaxQuizzes {
		quizzes = quizzes[:MaxQuizzes]
	}
	a := &ArcadeScreen{deps: d, title: title, quizzes: quizzes}

	items := make([]components.MenuItem, len(quizzes))
	for i, q := range quizzes {
		id := q.ID
		items[i] = components.MenuItem{
			Label:  q.Topic,
			Action: func() tea.Cmd { return router.Push(play.ByID(d, id)) },
		}
	}
	a.menu = components.NewMenu(items)
	return a
}

func (a *ArcadeScreen) Init() tea.Cmd { return nil }

func (a *ArcadeScreen) Title() string { return a.title }

func (a *ArcadeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "Esc", Description: "Back"},
	}
}

func (a *ArcadeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	a.menu, cmd = a.menu.Update(msg)
	return a, cmd
}

func (a *ArcadeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if len(a.quizzes) == 0 {
		return components.CabinetFrame(theme.Hint.Render("No quizzes yet. Create one from the home screen!"), width, height)
	}

	heading := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
		Render(strings.ToUpper(a.title))

	buttons := make([]string, len(a.quizzes))
	for i, q := range a.quizzes {
		buttons[i] = components.ArcadeButton(q.Topic, i == a.menu.Selected, min(cw-4, 40))
	}

	sel := a.quizzes[a.menu.Selected]
	detail := lipgloss.NewStyle().Foreground(theme.TextDim).Render(describe(sel))

	content := strings.Join([]string{
		heading,
		strings.Join(buttons, "\n"),
		detail,
	}, "\n\n")
	return components.CabinetFrame(content, width, height)
}

// describe summarises a listing entry.
func describe(q quiz.Quiz) string {
	parts := []string{fmt.Sprintf("%d questions", q.QuestionCount)}
	if q.Score > 0 {
		parts = append(parts, fmt.Sprintf("best %.0f", q.Score))
	}
	if len(q.CreatedAt) >= 10 {
		parts = append(parts, "created "+q.CreatedAt[:10])
	}
	return strings.Join(parts, " · ")
}
