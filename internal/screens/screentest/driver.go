// Package screentest drives screens through the router without a terminal.
package screentest

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
)

// settle bounds how long a command may block before it is treated as a
// background timer (cursor blink, spinner frame) and dropped.
const settle = 50 * time.Millisecond

// maxSteps stops runaway command loops.
const maxSteps = 1000

// Driver feeds commands and their messages through a router until nothing
// is left to do. Messages matching the hold predicate are queued in Held
// instead of being delivered, so tests control timers step by step.
type Driver struct {
	t      testing.TB
	Router *router.Router
	Held   []tea.Msg
	hold   func(tea.Msg) bool
}

// NewDriver starts root and runs its Init. hold may be nil.
func NewDriver(t testing.TB, root screen.Screen, hold func(tea.Msg) bool) *Driver {
	t.Helper()
	if hold == nil {
		hold = func(tea.Msg) bool { return false }
	}
	d := &Driver{t: t, Router: router.New(root), hold: hold}
	d.Run(root.Init())
	return d
}

// Active returns the screen on top of the stack.
func (d *Driver) Active() screen.Screen { return d.Router.Active() }

// Run executes cmd and everything it leads to.
func (d *Driver) Run(cmd tea.Cmd) {
	d.t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > maxSteps {
			d.t.Fatalf("command loop did not settle after %d steps", maxSteps)
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := exec(c)
		if !ok {
			continue
		}
		switch m := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, m...)
		default:
			if d.hold(m) {
				d.Held = append(d.Held, m)
				continue
			}
			queue = append(queue, d.Router.Update(m))
		}
	}
}

// Send delivers msg as if the runtime produced it.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	d.Run(func() tea.Msg { return msg })
}

// Key sends a key press, e.g. "enter", "b", "ctrl+n", "shift+tab".
func (d *Driver) Key(key string) {
	d.t.Helper()
	d.Send(KeyPress(key))
}

// Type sends each rune of s as a key press.
func (d *Driver) Type(s string) {
	d.t.Helper()
	for _, r := range s {
		d.Send(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// Release delivers the oldest held message. It reports false when nothing
// is held.
func (d *Driver) Release() bool {
	d.t.Helper()
	if len(d.Held) == 0 {
		return false
	}
	msg := d.Held[0]
	d.Held = d.Held[1:]
	// Delivered directly; going through Run would hold it again.
	d.Run(d.Router.Update(msg))
	return true
}

// ReleaseN delivers up to n held messages in order.
func (d *Driver) ReleaseN(n int) {
	d.t.Helper()
	for range n {
		if !d.Release() {
			return
		}
	}
}

// View renders the active screen.
func (d *Driver) View() string { return d.Router.View(100, 40) }

func exec(c tea.Cmd) (tea.Msg, bool) {
	done := make(chan tea.Msg, 1)
	go func() { done <- c() }()
	select {
	case msg := <-done:
		return msg, true
	case <-time.After(settle):
		return nil, false
	}
}

var namedKeys = map[string]rune{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEscape,
	"tab":       tea.KeyTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"backspace": tea.KeyBackspace,
	"space":     tea.KeySpace,
}

// KeyPress builds the message for a key name.
func KeyPress(key string) tea.KeyPressMsg {
	var mod tea.KeyMod
	for {
		switch {
		case strings.HasPrefix(key, "ctrl+"):
			mod |= tea.ModCtrl
			key = strings.TrimPrefix(key, "ctrl+")
			continue
		case strings.HasPrefix(key, "shift+"):
			mod |= tea.ModShift
			key = strings.TrimPrefix(key, "shift+")
			continue
		}
		break
	}
	if code, ok := namedKeys[key]; ok {
		return tea.KeyPressMsg{Code: code, Mod: mod}
	}
	r := []rune(key)[0]
	if mod != 0 {
		return tea.KeyPressMsg{Code: r, Mod: mod}
	}
	return tea.KeyPressMsg{Code: r, Text: key}
}

// Root is an inert bottom-of-stack screen that counts its Inits.
type Root struct {
	Inits int
}

func (r *Root) Init() tea.Cmd                            { r.Inits++; return nil }
func (r *Root) Update(tea.Msg) (screen.Screen, tea.Cmd) { return r, nil }
func (r *Root) View(int, int) string                    { return "root" }
func (r *Root) Title() string                           { return "Root" }
