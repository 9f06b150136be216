package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/screens/home"
	"github.com/quizziebot/quizzie/internal/screens/play"
	"github.com/quizziebot/quizzie/internal/screens/welcome"
	"github.com/quizziebot/quizzie/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Deps *deps.Deps

	// UpdateCheck, when set, lets the home screen announce new releases.
	UpdateCheck home.UpdateCheck

	// QuizID skips the intro and opens this quiz on top of the home screen.
	QuizID string
}

var defaultHints = []layout.KeyHint{
	{Key: "Esc", Description: "Back"},
	{Key: "Ctrl+C", Description: "Quit"},
}

// AppModel is the top-level Bubble Tea model.
type AppModel struct {
	router *router.Router
	deps   *deps.Deps
	quizID string
	width  int
	height int
}

func newAppModel(opts Options) *AppModel {
	d := opts.Deps
	var homeOpts []home.Option
	if opts.UpdateCheck != nil {
		homeOpts = append(homeOpts, home.WithUpdateCheck(opts.UpdateCheck))
	}
	newHome := func() screen.Screen { return home.New(d, homeOpts...) }

	var root screen.Screen
	if opts.QuizID != "" {
		root = newHome()
	} else {
		root = welcome.New(newHome)
	}
	return &AppModel{router: router.New(root), deps: d, quizID: opts.QuizID}
}

func (m *AppModel) Init() tea.Cmd {
	cmd := m.router.Active().Init()
	if m.quizID != "" {
		cmd = tea.Batch(cmd, router.Push(play.ByID(m.deps, m.quizID)))
	}
	return cmd
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.popsOnEsc() {
				return m, m.router.Pop()
			}
		}
	}

	return m, m.router.Update(msg)
}

// popsOnEsc reports whether Esc should leave the active screen rather than
// be delivered to it.
func (m *AppModel) popsOnEsc() bool {
	if m.router.Depth() <= 1 {
		return false
	}
	if ic, ok := m.router.Active().(screen.EscInterceptor); ok && ic.InterceptsEsc() {
		return false
	}
	return true
}

func (m *AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var username string
	var score int
	if m.deps != nil && m.deps.Auth != nil {
		if u, ok := m.deps.Auth.Current(); ok {
			username, score = u.Username, u.Score
		}
	}
	header := layout.RenderHeader(active.Title(), username, score, m.width)

	hints := defaultHints
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the TUI and blocks until it exits. Cancelling ctx stops the
// program and every request bound to it.
func Run(ctx context.Context, opts Options) error {
	if opts.Deps == nil {
		return fmt.Errorf("app: no dependencies")
	}
	if opts.Deps.Base == nil {
		opts.Deps.Base = ctx
	}
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
