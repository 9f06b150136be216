// Package leaderboard shows the top players with a podium for the top three.
package leaderboard

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/api"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/ui/components"
	"github.com/quizziebot/quizzie/internal/ui/layout"
	"github.com/quizziebot/quizzie/internal/ui/theme"
)

type loadedMsg struct {
	Entries []api.LeaderboardEntry
	Err     error
}

// LeaderboardScreen lists the highest scores.
type LeaderboardScreen struct {
	deps    *deps.Deps
	loader  components.Loader
	entries []api.LeaderboardEntry
	limit   int
	loaded  bool
	errMsg  string
}

var (
	_ screen.Screen          = (*LeaderboardScreen)(nil)
	_ screen.KeyHintProvider = (*LeaderboardScreen)(nil)
)

// New creates the screen. Entries load on Init.
func New(d *deps.Deps) *LeaderboardScreen {
	return &LeaderboardScreen{
		deps:   d,
		loader: components.NewLoader("Loading leaderboard..."),
		limit:  api.DefaultLeaderboardLimit,
	}
}

func (l *LeaderboardScreen) Init() tea.Cmd {
	l.loaded = false
	l.errMsg = ""
	ctx := l.deps.Context()
	backend := l.deps.Backend
	limit := l.limit
	return tea.Batch(l.loader.Init(), func() tea.Msg {
		entries, err := backend.Leaderboard(ctx, limit)
		return loadedMsg{Entries: entries, Err: err}
	})
}

func (l *LeaderboardScreen) Title() string { return fmt.Sprintf("Leaderboard · Top %d", l.limit) }

func (l *LeaderboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "l", Description: fmt.Sprintf("Top %d", nextLimit(l.limit))},
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (l *LeaderboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		l.loaded = true
		if msg.Err != nil {
			l.errMsg = deps.ErrorText("Couldn't load the leaderboard", msg.Err)
			l.deps.Log().Warn("load leaderboard", "err", msg.Err)
			return l, nil
		}
		l.entries = msg.Entries
		return l, nil
	case tea.KeyMsg:
		if !l.loaded {
			return l, nil
		}
		switch msg.String() {
		case "r":
			return l, l.Init()
		case "l":
			l.limit = nextLimit(l.limit)
			return l, l.Init()
		}
		return l, nil
	}
	if !l.loaded {
		var cmd tea.Cmd
		l.loader, cmd = l.loader.Update(msg)
		return l, cmd
	}
	return l, nil
}

// nextLimit returns the page size after cur, wrapping around.
func nextLimit(cur int) int {
	for i, n := range api.LeaderboardLimits {
		if n == cur {
			return api.LeaderboardLimits[(i+1)%len(api.LeaderboardLimits)]
		}
	}
	return api.DefaultLeaderboardLimit
}

// Limit returns the page size currently shown.
func (l *LeaderboardScreen) Limit() int { return l.limit }

// Entries returns the loaded rows.
func (l *LeaderboardScreen) Entries() []api.LeaderboardEntry { return l.entries }

func (l *LeaderboardScreen) View(width, height int) string {
	var body string
	switch {
	case !l.loaded:
		body = l.loader.View()
	case l.errMsg != "":
		body = theme.Alert.Render(l.errMsg) + "\n\n" + theme.Hint.Render("Press r to try again")
	case len(l.entries) == 0:
		body = theme.Hint.Render("No scores yet. Be the first!")
	default:
		me, _ := l.deps.Auth.CurrentUserID()
		body = renderPodium(l.entries, me) + "\n\n" + renderRows(l.entries, me)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func medal(rank int) color.Color {
	switch rank {
	case 1:
		return theme.Gold
	case 2:
		return theme.Silver
	default:
		return theme.Bronze
	}
}

// renderPodium draws the top three as columns, first place in the middle
// and tallest.
func renderPodium(entries []api.LeaderboardEntry, me string) string {
	heights := map[int]int{1: 5, 2: 3, 3: 2}
	var cols []string
	for _, rank := range []int{2, 1, 3} {
		if rank > len(entries) {
			continue
		}
		e := entries[rank-1]
		name := e.Username
		if e.ID == me {
			name += " (you)"
		}
		c := medal(rank)
		head := lipgloss.NewStyle().Foreground(c).Bold(true).Width(16).Align(lipgloss.Center).
			Render(fmt.Sprintf("%s\n★ %d", name, e.Score))
		block := lipgloss.NewStyle().Background(c).Foreground(theme.BgDark).Bold(true).
			Width(12).Height(heights[rank]).Align(lipgloss.Center).
			Render(fmt.Sprintf("%d", rank))
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Center, head, block))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, cols...)
}

func renderRows(entries []api.LeaderboardEntry, me string) string {
	if len(entries) <= 3 {
		return ""
	}
	var lines []string
	for i, e := range entries[3:] {
		line := fmt.Sprintf("%3d. %-20s ★ %d", i+4, e.Username, e.Score)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if e.ID == me {
			style = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
			line += "  ← you"
		}
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}
