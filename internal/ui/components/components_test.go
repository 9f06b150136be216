package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(s string) tea.KeyPressMsg {
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func threeChoices() []Choice {
	return []Choice{{ID: "a1", Text: "3"}, {ID: "a2", Text: "4"}, {ID: "a3", Text: "5"}}
}

func TestMultiChoiceEnterPicksSelected(t *testing.T) {
	m := NewMultiChoice("2+2?", threeChoices())
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(ChoiceMsg)
	if !ok || msg.ID != "a2" {
		t.Fatalf("msg = %#v", msg)
	}
	if !m.Locked() {
		t.Error("expected component to lock after a pick")
	}
}

func TestMultiChoiceLetterAndDigitKeys(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"a", "a1"},
		{"c", "a3"},
		{"2", "a2"},
		{"B", "a2"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := NewMultiChoice("", threeChoices())
			_, cmd := m.Update(key(tt.key))
			if cmd == nil {
				t.Fatal("expected a command")
			}
			if got := cmd().(ChoiceMsg).ID; got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMultiChoiceIgnoresOutOfRangeKeys(t *testing.T) {
	m := NewMultiChoice("", threeChoices())
	m, cmd := m.Update(key("f"))
	if cmd != nil || m.Locked() {
		t.Fatal("expected no pick for a letter past the last choice")
	}
}

func TestMultiChoiceLockedIgnoresInput(t *testing.T) {
	m := NewMultiChoice("", threeChoices())
	m.Lock()
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Fatal("expected locked component to ignore enter")
	}
}

func TestMultiChoiceRevealMarksAnswers(t *testing.T) {
	m := NewMultiChoice("2+2?", threeChoices())
	m.Reveal("a2", "a1")
	v := m.View()
	if !strings.Contains(v, "4  ✓") {
		t.Errorf("expected correct answer marked, got:\n%s", v)
	}
	if !strings.Contains(v, "3  ✗") {
		t.Errorf("expected wrong choice marked, got:\n%s", v)
	}
}

func TestTimerBarShowsSeconds(t *testing.T) {
	if v := TimerBar(7, 10, 30); !strings.Contains(v, " 7s") {
		t.Errorf("TimerBar = %q", v)
	}
}

func TestFormTabCyclesFocus(t *testing.T) {
	f := NewForm(NewTextInput("Email", "", 40), NewPasswordInput("Password", "", 40))
	if f.Focus != 0 || !f.Inputs[0].Focused() || f.Inputs[1].Focused() {
		t.Fatal("expected first input focused")
	}
	f, _ = f.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if f.Focus != 1 || !f.Last() {
		t.Fatalf("focus = %d", f.Focus)
	}
	f, _ = f.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if f.Focus != 0 {
		t.Fatalf("expected focus to wrap, got %d", f.Focus)
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "A", Disabled: true}, {Label: "B"}, {Label: "C", Disabled: true}, {Label: "D"}})
	if m.Selected != 1 {
		t.Fatalf("selected = %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Fatalf("selected = %d", m.Selected)
	}
}

func TestMenuWrapsAndJumps(t *testing.T) {
	var picked string
	pick := func(label string) func() tea.Cmd {
		return func() tea.Cmd { picked = label; return nil }
	}
	m := NewMenu([]MenuItem{
		{Label: "A", Action: pick("A")},
		{Label: "B", Action: pick("B"), Disabled: true},
		{Label: "C", Action: pick("C")},
	})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 2 {
		t.Fatalf("up from top: selected = %d, want 2", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 0 {
		t.Fatalf("down from bottom: selected = %d, want 0", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	if picked != "" || m.Selected != 0 {
		t.Fatalf("disabled row activated: picked=%q selected=%d", picked, m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	if picked != "C" || m.Selected != 2 {
		t.Fatalf("picked=%q selected=%d", picked, m.Selected)
	}
}

func TestMenuSetItemsKeepsSelection(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "A"}, {Label: "B"}})
	m.Selected = 1
	m = m.SetItems([]MenuItem{{Label: "A"}, {Label: "B"}, {Label: "C"}})
	if m.Selected != 1 {
		t.Fatalf("selected = %d, want 1", m.Selected)
	}
	m = m.SetItems([]MenuItem{{Label: "A"}, {Label: "B", Disabled: true}})
	if m.Selected != 0 {
		t.Fatalf("selected = %d, want 0", m.Selected)
	}
}
