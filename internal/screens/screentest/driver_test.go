package screentest

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/quizziebot/quizzie/internal/screen"
)

type tickMsg struct{}

// ticker counts delivered ticks and asks for another after each one.
type ticker struct{ ticks int }

func (c *ticker) Init() tea.Cmd { return next }
func (c *ticker) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tickMsg); ok {
		c.ticks++
		return c, next
	}
	return c, nil
}
func (c *ticker) View(int, int) string { return "" }
func (c *ticker) Title() string        { return "Ticker" }

func next() tea.Msg { return tickMsg{} }

func TestReleaseDeliversHeldMessage(t *testing.T) {
	c := &ticker{}
	drv := NewDriver(t, c, func(msg tea.Msg) bool {
		_, ok := msg.(tickMsg)
		return ok
	})
	if c.ticks != 0 || len(drv.Held) != 1 {
		t.Fatalf("after init: ticks %d held %d", c.ticks, len(drv.Held))
	}

	drv.ReleaseN(3)
	if c.ticks != 3 {
		t.Errorf("ticks = %d, want 3", c.ticks)
	}
	if len(drv.Held) != 1 {
		t.Errorf("held = %d, want the next tick queued", len(drv.Held))
	}
	if drv.Release() && c.ticks != 4 {
		t.Errorf("ticks = %d, want 4", c.ticks)
	}
}
