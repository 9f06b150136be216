// Package home is the arcade-cabinet main menu.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/sync/errgroup"

	"github.com/quizziebot/quizzie/internal/quiz"
	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/arcade"
	"github.com/quizziebot/quizzie/internal/screens/create"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/screens/history"
	"github.com/quizziebot/quizzie/internal/screens/leaderboard"
	"github.com/quizziebot/quizzie/internal/screens/profile"
	"github.com/quizziebot/quizzie/internal/screens/settings"
	"github.com/quizziebot/quizzie/internal/screens/signin"
	"github.com/quizziebot/quizzie/internal/ui/components"
	"github.com/quizziebot/quizzie/internal/ui/layout"
)

// UpdateCheck reports a newer release, if any.
type UpdateCheck func(ctx context.Context) (latest string, available bool)

// Option configures the home screen.
type Option func(*HomeScreen)

// WithUpdateCheck shows a note on the home screen when a release is newer
// than the running build.
func WithUpdateCheck(fn UpdateCheck) Option {
	return func(h *HomeScreen) { h.updateCheck = fn }
}

type homeLoadedMsg struct {
	Quizzes     []quiz.Quiz
	Recommended []quiz.Quiz
	Err         error
}

type updateCheckedMsg struct {
	Latest string
}

const (
	itemArcade = iota
	itemForYou
	itemCreate
	itemLeaderboard
	itemAccount
	itemHistory
	itemSettings
	itemExit
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps        *deps.Deps
	updateCheck UpdateCheck

	menu        components.Menu
	quizzes     []quiz.Quiz
	recommended []quiz.Quiz
	loading     bool
	errMsg      string
	lastScore   int
	variant     MascotVariant
	latest      string
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
)

// New creates a new HomeScreen.
func New(d *deps.Deps, opts ...Option) *HomeScreen {
	h := &HomeScreen{deps: d, lastScore: -1}
	for _, opt := range opts {
		opt(h)
	}
	h.menu = components.NewMenu(h.menuItems())
	// Arcade is the default pick once quizzes arrive.
	h.menu.Selected = itemArcade
	return h
}

// Init reloads everything; the router calls it again when the user
// returns home.
func (h *HomeScreen) Init() tea.Cmd {
	h.loading = true
	cmds := []tea.Cmd{h.load()}
	if h.updateCheck != nil && h.latest == "" {
		cmds = append(cmds, h.checkUpdate())
	}
	return tea.Batch(cmds...)
}

// load fetches the quiz list, the user's recommendations and the user's
// latest score concurrently. Only the quiz list is required.
func (h *HomeScreen) load() tea.Cmd {
	d := h.deps
	ctx := d.Context()
	userID, signedIn := d.Auth.CurrentUserID()
	return func() tea.Msg {
		var msg homeLoadedMsg
		var g errgroup.Group
		g.Go(func() error {
			qs, err := d.Backend.ListQuizzes(ctx)
			if err != nil {
				return fmt.Errorf("list quizzes: %w", err)
			}
			msg.Quizzes = qs
			return nil
		})
		if signedIn {
			g.Go(func() error {
				recs, err := d.Backend.FetchRecommendedQuizzes(ctx, userID)
				if err != nil {
					d.Log().Warn("fetch recommendations", "err", err)
					return nil
				}
				msg.Recommended = recs
				return nil
			})
			g.Go(func() error {
				if err := d.Auth.Refresh(ctx); err != nil {
					d.Log().Warn("refresh user", "err", err)
				}
				return nil
			})
		}
		msg.Err = g.Wait()
		return msg
	}
}

func (h *HomeScreen) checkUpdate() tea.Cmd {
	check := h.updateCheck
	ctx := h.deps.Context()
	return func() tea.Msg {
		latest, ok := check(ctx)
		if !ok {
			return nil
		}
		return updateCheckedMsg{Latest: latest}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		h.loading = false
		h.errMsg = ""
		h.variant = MascotIdle
		if msg.Err != nil {
			h.deps.Log().Warn("load home", "err", msg.Err)
			h.errMsg = deps.ErrorText("Couldn't reach Quizzie", msg.Err)
			h.variant = MascotAlert
		} else {
			h.quizzes = msg.Quizzes
		}
		h.recommended = msg.Recommended
		if u, ok := h.deps.Auth.Current(); ok {
			if h.lastScore >= 0 && u.Score > h.lastScore {
				h.variant = MascotCelebrating
			}
			h.lastScore = u.Score
		}
		h.menu = h.rebuildMenu()
		return h, nil

	case updateCheckedMsg:
		h.latest = msg.Latest
		return h, nil

	case deps.SignedInMsg:
		return h, h.Init()

	case tea.KeyMsg:
		if msg.String() == "r" && !h.loading {
			return h, h.Init()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) rebuildMenu() components.Menu {
	return h.menu.SetItems(h.menuItems())
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	d := h.deps
	_, signedIn := d.Auth.CurrentUserID()

	items := make([]components.MenuItem, itemExit+1)
	items[itemArcade] = components.MenuItem{Label: "ARCADE", Disabled: len(h.quizzes) == 0,
		Action: func() tea.Cmd { return router.Push(arcade.New(d, "Arcade", h.quizzes)) }}
	items[itemForYou] = components.MenuItem{Label: "FOR YOU", Disabled: len(h.recommended) == 0,
		Action: func() tea.Cmd { return router.Push(arcade.New(d, "For You", h.recommended)) }}
	items[itemCreate] = components.MenuItem{Label: "CREATE QUIZ",
		Action: func() tea.Cmd { return router.Push(create.New(d)) }}
	items[itemLeaderboard] = components.MenuItem{Label: "LEADERBOARD",
		Action: func() tea.Cmd { return router.Push(leaderboard.New(d)) }}
	if signedIn {
		items[itemAccount] = components.MenuItem{Label: "PROFILE",
			Action: func() tea.Cmd { return router.Push(profile.New(d)) }}
	} else {
		items[itemAccount] = components.MenuItem{Label: "SIGN IN",
			Action: func() tea.Cmd { return router.Push(signin.New(d)) }}
	}
	items[itemHistory] = components.MenuItem{Label: "HISTORY", Disabled: d.Results == nil,
		Action: func() tea.Cmd { return router.Push(history.New(d)) }}
	items[itemSettings] = components.MenuItem{Label: "SETTINGS",
		Action: func() tea.Cmd { return router.Push(settings.New(d)) }}
	items[itemExit] = components.MenuItem{Label: "EXIT GAME",
		Action: func() tea.Cmd { return tea.Quit }}
	return items
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "R", Description: "Reload"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// homeLayout says which optional parts of the cabinet are drawn.
type homeLayout struct {
	compact, tiny, mascot bool
}

// View drops the mascot, then shrinks the title and menu, until the
// cabinet fits the height it was given.
func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactWidth(width)
	layouts := []homeLayout{
		{compact: compact, mascot: !compact},
		{compact: compact},
		{compact: true},
		{compact: true, tiny: true},
	}

	cw := components.ContentWidth(width)
	// cabinet border
	room := height - 2
	var body string
	for _, l := range layouts {
		body = h.renderBody(cw, l)
		if lipgloss.Height(body) <= room {
			break
		}
	}
	return components.CabinetFrame(body, width, height)
}

func (h *HomeScreen) renderBody(cw int, l homeLayout) string {
	var sections []string
	sections = append(sections, renderTitle(cw, l.compact))
	if l.mascot {
		sections = append(sections, renderMascotBox(h.variant, cw))
	}

	st := stats{quizzes: len(h.quizzes), recommended: len(h.recommended)}
	if u, ok := h.deps.Auth.Current(); ok {
		st.username = u.Username
		st.score = u.Score
	}
	sections = append(sections, renderStatsBar(st, cw, l.compact))

	if h.errMsg != "" {
		sections = append(sections, renderAlert(h.errMsg, cw))
	}

	labels := make([]string, len(h.menu.Items))
	disabled := make(map[int]bool)
	for i, item := range h.menu.Items {
		labels[i] = item.Label
		if item.Disabled {
			disabled[i] = true
		}
	}
	if l.tiny {
		sections = append(sections, renderArcadeMenuCompact(labels, h.menu.Selected, cw, disabled))
	} else {
		sections = append(sections, renderArcadeMenu(labels, h.menu.Selected, cw, disabled))
	}

	if h.latest != "" {
		sections = append(sections, renderUpdateNote(h.latest, cw))
	}
	return strings.Join(sections, "\n\n")
}

func (h *HomeScreen) Title() string {
	return "Home"
}
