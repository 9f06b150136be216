package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// MenuItem is one selectable row. Disabled rows are shown but skipped.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions. Navigation wraps around and skips
// disabled rows; the digits 1-9 pick a row directly.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.firstEnabled()
	return m
}

// SetItems swaps the rows, keeping the selection when that row is still
// enabled.
func (m Menu) SetItems(items []MenuItem) Menu {
	prev := m.Selected
	m.Items = items
	if prev >= 0 && prev < len(items) && !items[prev].Disabled {
		m.Selected = prev
	} else {
		m.Selected = m.firstEnabled()
	}
	return m
}

func (m Menu) firstEnabled() int {
	for i, it := range m.Items {
		if !it.Disabled {
			return i
		}
	}
	return 0
}

// step moves the selection by dir, wrapping, until an enabled row is found.
func (m Menu) step(dir int) int {
	n := len(m.Items)
	for i := 1; i <= n; i++ {
		j := ((m.Selected+dir*i)%n + n) % n
		if !m.Items[j].Disabled {
			return j
		}
	}
	return m.Selected
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.Selected = m.step(-1)
	case "down", "j":
		m.Selected = m.step(1)
	case "enter":
		return m, m.activate(m.Selected)
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= min(len(m.Items), 9) {
			if m.Items[n-1].Disabled {
				return m, nil
			}
			m.Selected = n - 1
			return m, m.activate(n - 1)
		}
	}
	return m, nil
}

// View renders the menu as a plain list.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		style := lipgloss.NewStyle().Foreground(theme.Text)
		prefix := "    "
		switch {
		case item.Disabled:
			style = style.Foreground(theme.TextDim)
		case i == m.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
			prefix = "  ▸ "
		}
		b.WriteString(style.Render(prefix+item.Label) + "\n")
	}
	return b.String()
}
