package arcade

import (
	"fmt"
	"strings"
	"testing"

	"github.com/quizziebot/quizzie/internal/quiz"
	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screens/play"
	"github.com/quizziebot/quizzie/internal/screens/screentest"
)

func quizzes(n int) []quiz.Quiz {
	out := make([]quiz.Quiz, n)
	for i := range out {
		out[i] = quiz.Quiz{
			ID:    fmt.Sprintf("q%d", i),
			Topic: fmt.Sprintf("Topic %d", i),
			Questions: []quiz.Question{{
				Text:    "?",
				Answers: []quiz.Answer{{Text: "yes", IsCorrect: true}, {Text: "no"}},
			}},
		}
	}
	return out
}

func TestArcadeCapsQuizzes(t *testing.T) {
	d := screentest.NewDeps(t, screentest.NewBackend())
	a := New(d, "Arcade", quizzes(8))
	if len(a.quizzes) != MaxQuizzes {
		t.Fatalf("quizzes = %d, want %d", len(a.quizzes), MaxQuizzes)
	}
	view := a.View(100, 40)
	if !strings.Contains(view, "Topic 4") || strings.Contains(view, "Topic 5") {
		t.Error("view should list exactly the first five quizzes")
	}
}

func TestArcadePlaysSelected(t *testing.T) {
	qs := quizzes(3)
	b := screentest.NewBackend(qs...)
	d := screentest.NewDeps(t, b)
	drv := screentest.NewDriver(t, &screentest.Root{}, nil)
	drv.Send(router.PushScreenMsg{Screen: New(d, "Arcade", qs)})

	drv.Key("down")
	drv.Key("enter")

	q, ok := drv.Active().(*play.QuestionScreen)
	if !ok {
		t.Fatalf("expected question, got %T", drv.Active())
	}
	if q.Title() != "Topic 1" {
		t.Errorf("playing %q, want Topic 1", q.Title())
	}
}

func TestArcadeEmpty(t *testing.T) {
	d := screentest.NewDeps(t, screentest.NewBackend())
	if !strings.Contains(New(d, "For You", nil).View(100, 40), "No quizzes yet") {
		t.Error("empty arcade should say so")
	}
}
