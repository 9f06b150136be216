// Package create is the create-quiz form: a topic, a difficulty preset and
// related-topic suggestions.
package create

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/quiz"
	"github.com/quizziebot/quizzie/internal/quizgen"
	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/screens/play"
	"github.com/quizziebot/quizzie/internal/ui/components"
	"github.com/quizziebot/quizzie/internal/ui/layout"
	"github.com/quizziebot/quizzie/internal/ui/theme"
)

type focus int

const (
	focusTopic focus = iota
	focusLevel
	focusSuggestions
)

// maxSuggestions caps the related topics shown.
const maxSuggestions = 5

type analysisMsg struct {
	Topic       string
	Suggestions []string
	Concepts    []string
	Err         error
}

// CreateScreen asks the backend, or the on-device generator in practice
// mode, for a new quiz.
type CreateScreen struct {
	deps  *deps.Deps
	topic components.TextInput
	focus focus
	level int
	local bool

	analyzedTopic string
	analyzing     bool
	suggestions   []string
	concepts      []string
	suggestion    int
	errMsg        string
}

var (
	_ screen.Screen          = (*CreateScreen)(nil)
	_ screen.KeyHintProvider = (*CreateScreen)(nil)
	_ screen.EscInterceptor  = (*CreateScreen)(nil)
)

// New creates the form with the basic preset selected.
func New(d *deps.Deps) *CreateScreen {
	return &CreateScreen{
		deps:  d,
		topic: components.NewTextInput("Topic", "e.g. The solar system", 80),
	}
}

func (c *CreateScreen) Init() tea.Cmd { return c.topic.Init() }

func (c *CreateScreen) Title() string { return "Create Quiz" }

// InterceptsEsc moves focus back to the topic field before leaving.
func (c *CreateScreen) InterceptsEsc() bool { return c.focus != focusTopic }

// Level returns the selected preset.
func (c *CreateScreen) Level() quiz.Level { return quiz.Levels[c.level] }

func (c *CreateScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Next"}}
	switch c.focus {
	case focusTopic:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Suggest topics"})
	case focusLevel:
		hints = append(hints,
			layout.KeyHint{Key: "←→", Description: "Level"},
			layout.KeyHint{Key: "Enter", Description: "Create"})
	case focusSuggestions:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Pick"},
			layout.KeyHint{Key: "Enter", Description: "Use topic"})
	}
	if c.deps.Generator != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+L", Description: "Practice mode"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (c *CreateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisMsg:
		if msg.Topic != c.topic.Value() {
			return c, nil
		}
		c.analyzing = false
		if msg.Err != nil {
			c.deps.Log().Info("context analysis", "topic", msg.Topic, "err", msg.Err)
			return c, nil
		}
		c.suggestions = filterSuggestions(msg.Suggestions, msg.Topic)
		c.concepts = msg.Concepts
		c.suggestion = 0
		return c, nil

	case tea.KeyMsg:
		if cmd, handled := c.handleKey(msg); handled {
			return c, cmd
		}
	}

	if c.focus == focusTopic {
		var cmd tea.Cmd
		c.topic, cmd = c.topic.Update(msg)
		return c, cmd
	}
	return c, nil
}

func (c *CreateScreen) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+l":
		if c.deps.Generator != nil {
			c.local = !c.local
		}
		return nil, true
	case "tab":
		return c.moveFocus(1), true
	case "shift+tab":
		return c.moveFocus(-1), true
	case "esc":
		return c.setFocus(focusTopic), true
	}

	switch c.focus {
	case focusTopic:
		if msg.String() == "enter" {
			return tea.Batch(c.analyze(), c.setFocus(focusLevel)), true
		}
	case focusLevel:
		switch msg.String() {
		case "left", "h", "up", "k":
			c.level = (c.level + len(quiz.Levels) - 1) % len(quiz.Levels)
		case "right", "l", "down", "j":
			c.level = (c.level + 1) % len(quiz.Levels)
		case "enter":
			return c.create(), true
		}
		return nil, true
	case focusSuggestions:
		switch msg.String() {
		case "up", "k":
			if c.suggestion > 0 {
				c.suggestion--
			}
		case "down", "j":
			if c.suggestion < len(c.suggestions)-1 {
				c.suggestion++
			}
		case "enter":
			if len(c.suggestions) > 0 {
				c.topic.SetValue(c.suggestions[c.suggestion])
				return tea.Batch(c.analyze(), c.setFocus(focusLevel)), true
			}
		}
		return nil, true
	}
	return nil, false
}

func (c *CreateScreen) moveFocus(delta int) tea.Cmd {
	n := 2
	if len(c.suggestions) > 0 {
		n = 3
	}
	return c.setFocus(focus((int(c.focus) + delta + n) % n))
}

func (c *CreateScreen) setFocus(f focus) tea.Cmd {
	c.focus = f
	if f == focusTopic {
		return c.topic.Focus()
	}
	c.topic.Blur()
	return nil
}

// analyze asks for topics related to the current one. Practice mode asks
// the local generator instead of the backend.
func (c *CreateScreen) analyze() tea.Cmd {
	topic := c.topic.Value()
	if topic == "" || topic == c.analyzedTopic {
		return nil
	}
	c.analyzedTopic = topic
	c.analyzing = true

	ctx := c.deps.Context()
	if c.local {
		gen := c.deps.Generator
		return func() tea.Msg {
			topics, err := gen.RelatedTopics(ctx, topic)
			return analysisMsg{Topic: topic, Suggestions: topics, Err: err}
		}
	}
	backend := c.deps.Backend
	return func() tea.Msg {
		a, err := backend.AnalyzeContext(ctx, topic)
		return analysisMsg{Topic: topic, Suggestions: a.SuggestedTopics, Concepts: a.KeyConcepts, Err: err}
	}
}

func (c *CreateScreen) create() tea.Cmd {
	topic := c.topic.Value()
	if topic == "" {
		c.errMsg = "Enter a topic first."
		return c.setFocus(focusTopic)
	}
	level := c.Level()
	cfg, err := quiz.Preset(level)
	if err != nil {
		c.errMsg = err.Error()
		return nil
	}
	c.errMsg = ""
	d := c.deps

	if c.local {
		in := quizgen.Input{Topic: topic, Level: level, Config: cfg, Language: d.Prefs.Language()}
		return router.Replace(play.NewLoader(d, "Generating", "Writing your practice quiz...",
			func(ctx context.Context) (quiz.Quiz, error) {
				return d.Generator.Generate(ctx, in)
			}))
	}
	return router.Replace(play.NewLoader(d, "Generating", "Generating your quiz...",
		func(ctx context.Context) (quiz.Quiz, error) {
			id, err := d.Backend.CreateQuiz(ctx, topic, cfg, level)
			if err != nil {
				return quiz.Quiz{}, fmt.Errorf("create quiz: %w", err)
			}
			return d.Backend.GetQuiz(ctx, id)
		}))
}

// filterSuggestions drops blanks, repeats and the topic itself.
func filterSuggestions(in []string, topic string) []string {
	seen := map[string]bool{strings.ToLower(topic): true}
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func (c *CreateScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("What do you want to be quizzed on?"))
	b.WriteString("\n\n")
	b.WriteString(c.topic.View())
	b.WriteString("\n\n")
	b.WriteString(c.renderLevels())
	b.WriteString("\n\n")
	b.WriteString(c.renderSuggestions())

	mode := theme.Hint.Render("Mode: online")
	if c.local {
		mode = lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render("Mode: practice (generated on this device, not scored online)")
	}
	b.WriteString("\n")
	b.WriteString(mode)
	if c.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Alert.Render(c.errMsg))
	}

	card := theme.Card.Width(min(width-4, 72)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (c *CreateScreen) renderLevels() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	if c.focus == focusLevel {
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	parts := make([]string, len(quiz.Levels))
	for i, lvl := range quiz.Levels {
		name := strings.ToUpper(string(lvl))
		if i == c.level {
			parts[i] = lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true).Padding(0, 1).Render(name)
		} else {
			parts[i] = lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1).Render(name)
		}
	}
	cfg, _ := quiz.Preset(c.Level())
	detail := theme.Hint.Render(fmt.Sprintf("%d questions", cfg.MultipleChoiceCount))
	return label.Render("Level") + "\n" + strings.Join(parts, " ") + "  " + detail
}

func (c *CreateScreen) renderSuggestions() string {
	switch {
	case c.analyzing:
		return theme.Hint.Render("Finding related topics...")
	case len(c.suggestions) == 0:
		return ""
	}
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	if c.focus == focusSuggestions {
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	var b strings.Builder
	b.WriteString(label.Render("Related topics"))
	for i, s := range c.suggestions {
		b.WriteString("\n")
		if c.focus == focusSuggestions && i == c.suggestion {
			b.WriteString(theme.Selected.Render("▸ " + s))
		} else {
			b.WriteString(theme.Unselected.Render("  " + s))
		}
	}
	if len(c.concepts) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Key concepts: " + strings.Join(c.concepts, ", ")))
	}
	return b.String()
}
