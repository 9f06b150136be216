package history

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/store"
	"github.com/quizziebot/quizzie/internal/ui/layout"
	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// historyLimit is how many past results are listed.
const historyLimit = 50

type historyLoadedMsg struct {
	Records []store.ResultRecord
	Err     error
}

// HistoryScreen lists quizzes finished on this device.
type HistoryScreen struct {
	deps     *deps.Deps
	records  []store.ResultRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(d *deps.Deps) *HistoryScreen {
	return &HistoryScreen{
		deps:     d,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	if s.deps.Results == nil {
		return func() tea.Msg { return historyLoadedMsg{} }
	}
	ctx := s.deps.Context()
	repo := s.deps.Results
	return func() tea.Msg {
		recs, err := repo.List(ctx, store.QueryOpts{Limit: historyLimit})
		return historyLoadedMsg{Records: recs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Go play one!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.records {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		style := lipgloss.NewStyle().Foreground(accuracyColor(rec))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(prefix+summaryLine(rec))))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, line := range detailLines(rec) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func summaryLine(rec store.ResultRecord) string {
	topic := rec.Topic
	if topic == "" {
		topic = "Untitled quiz"
	}
	if len([]rune(topic)) > 28 {
		topic = string([]rune(topic)[:27]) + "…"
	}
	return fmt.Sprintf("%s  %-28s  %d/%d  %3.0f%%",
		rec.Timestamp.Format("Jan 02, 2006"), topic,
		rec.CorrectAnswers, rec.TotalQuestions, accuracy(rec))
}

func detailLines(rec store.ResultRecord) []string {
	lines := []string{
		fmt.Sprintf("    Score %d  ·  %.1fs total", rec.TotalScore, rec.TotalTime),
	}
	if rec.Local {
		lines = append(lines, "    Practice quiz, not scored online")
	} else {
		lines = append(lines, fmt.Sprintf("    +%d coins  ·  +%d XP", rec.CoinsEarned, rec.XPEarned))
	}
	return lines
}

func accuracy(rec store.ResultRecord) float64 {
	if rec.TotalQuestions == 0 {
		return 0
	}
	return float64(rec.CorrectAnswers) / float64(rec.TotalQuestions) * 100
}

func accuracyColor(rec store.ResultRecord) color.Color {
	switch a := accuracy(rec); {
	case a >= 80:
		return theme.Success
	case a >= 50:
		return theme.Accent
	default:
		return theme.Text
	}
}
