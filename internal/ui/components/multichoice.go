package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// choiceLetters label up to six answers.
const choiceLetters = "ABCDEF"

// Choice is one selectable answer.
type Choice struct {
	ID   string
	Text string
}

// ChoiceMsg is emitted when the user picks a choice.
type ChoiceMsg struct {
	ID string
}

// MultiChoice is a multiple-choice selector. Once locked it ignores input;
// Reveal marks the correct and chosen answers.
type MultiChoice struct {
	Question string
	Choices  []Choice
	Selected int

	locked    bool
	revealed  bool
	correctID string
	chosenID  string
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, choices []Choice) MultiChoice {
	return MultiChoice{
		Question: question,
		Choices:  choices,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles navigation. Enter, a letter or a digit picks a choice and
// locks the component.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.locked {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
		return m, nil
	case "down", "j":
		if m.Selected < len(m.Choices)-1 {
			m.Selected++
		}
		return m, nil
	case "enter":
		return m.pick(m.Selected)
	}

	if i := choiceIndex(key); i >= 0 && i < len(m.Choices) {
		m.Selected = i
		return m.pick(i)
	}
	return m, nil
}

func (m MultiChoice) pick(i int) (MultiChoice, tea.Cmd) {
	if i < 0 || i >= len(m.Choices) {
		return m, nil
	}
	m.locked = true
	m.chosenID = m.Choices[i].ID
	id := m.chosenID
	return m, func() tea.Msg { return ChoiceMsg{ID: id} }
}

// choiceIndex maps "a".."f" and "1".."6" to an index, or -1.
func choiceIndex(key string) int {
	if len(key) != 1 {
		return -1
	}
	c := key[0]
	switch {
	case c >= '1' && c <= '6':
		return int(c - '1')
	case c >= 'a' && c <= 'f':
		return int(c - 'a')
	case c >= 'A' && c <= 'F':
		return int(c - 'A')
	}
	return -1
}

// Lock stops accepting input without revealing the answer.
func (m *MultiChoice) Lock() { m.locked = true }

// Locked reports whether input is disabled.
func (m MultiChoice) Locked() bool { return m.locked }

// Reveal locks the component and highlights correctID, and chosenID when
// it differs. chosenID is empty for a timeout.
func (m *MultiChoice) Reveal(correctID, chosenID string) {
	m.locked = true
	m.revealed = true
	m.correctID = correctID
	m.chosenID = chosenID
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	var b strings.Builder
	if m.Question != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
		b.WriteString("\n\n")
	}

	for i, c := range m.Choices {
		label := "?"
		if i < len(choiceLetters) {
			label = choiceLetters[i : i+1]
		}
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, c.Text)

		var style lipgloss.Style
		switch {
		case m.revealed && c.ID == m.correctID:
			style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
			line += "  ✓"
		case m.revealed && c.ID == m.chosenID:
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
			line += "  ✗"
		case m.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case m.locked && c.ID == m.chosenID:
			style = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
		case i == m.Selected && !m.locked:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		case m.locked:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		default:
			style = lipgloss.NewStyle().Foreground(theme.Text)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
