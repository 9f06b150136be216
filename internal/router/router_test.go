package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/quizziebot/quizzie/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Replace(s2)

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after replace, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on replaced screen")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Update(ReplaceScreenMsg{Screen: s2})

	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	s3 := &stubScreen{title: "third"}
	r.Replace(s3)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "third" {
		t.Errorf("expected active 'third', got %q", r.Active().Title())
	}
}

// closingScreen records when the router discards it.
type closingScreen struct {
	stubScreen
	closed bool
}

func (c *closingScreen) Close() { c.closed = true }

func TestPopToRoot(t *testing.T) {
	root := &stubScreen{title: "root"}
	r := New(root)

	mid := &closingScreen{stubScreen: stubScreen{title: "mid"}}
	top := &closingScreen{stubScreen: stubScreen{title: "top"}}
	r.Push(mid)
	r.Push(top)
	root.initRan = false

	r.Update(PopToRootMsg{})

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "root" {
		t.Errorf("expected active 'root', got %q", r.Active().Title())
	}
	if !mid.closed || !top.closed {
		t.Error("expected discarded screens to be closed")
	}
	if !root.initRan {
		t.Error("expected root to be re-initialised")
	}
}

func TestPopClosesScreen(t *testing.T) {
	r := New(&stubScreen{title: "root"})
	top := &closingScreen{stubScreen: stubScreen{title: "top"}}
	r.Push(top)

	r.Update(PopScreenMsg{})

	if !top.closed {
		t.Error("expected popped screen to be closed")
	}
}

func TestReplaceClosesPrevious(t *testing.T) {
	old := &closingScreen{stubScreen: stubScreen{title: "old"}}
	r := New(old)

	r.Update(ReplaceScreenMsg{Screen: &stubScreen{title: "new"}})

	if !old.closed {
		t.Error("expected replaced screen to be closed")
	}
}

func TestNavigationCmds(t *testing.T) {
	s := &stubScreen{title: "x"}
	if msg, ok := Push(s)().(PushScreenMsg); !ok || msg.Screen != s {
		t.Errorf("Push cmd produced %#v", msg)
	}
	if msg, ok := Replace(s)().(ReplaceScreenMsg); !ok || msg.Screen != s {
		t.Errorf("Replace cmd produced %#v", msg)
	}
	if _, ok := Pop().(PopScreenMsg); !ok {
		t.Error("Pop cmd produced wrong message")
	}
	if _, ok := PopToRoot().(PopToRootMsg); !ok {
		t.Error("PopToRoot cmd produced wrong message")
	}
}

type resultMsg struct{ v string }

// recordingScreen keeps every message it receives.
type recordingScreen struct {
	stubScreen
	got []tea.Msg
}

func (s *recordingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func TestPopWithDeliversResult(t *testing.T) {
	below := &recordingScreen{stubScreen: stubScreen{title: "below"}}
	r := New(below)
	r.Push(&stubScreen{title: "form"})

	r.Update(PopWith(resultMsg{v: "ok"})())

	if r.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", r.Depth())
	}
	if len(below.got) != 1 || below.got[0] != (resultMsg{v: "ok"}) {
		t.Fatalf("expected result delivered below, got %v", below.got)
	}
}

func TestPopWithAtRootIsNoop(t *testing.T) {
	root := &recordingScreen{stubScreen: stubScreen{title: "root"}}
	r := New(root)

	r.Update(PopScreenMsg{Result: resultMsg{v: "x"}})

	if len(root.got) != 0 {
		t.Fatalf("root should not receive a result, got %v", root.got)
	}
}
