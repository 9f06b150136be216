package create

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/quizziebot/quizzie/internal/api"
	"github.com/quizziebot/quizzie/internal/llm"
	"github.com/quizziebot/quizzie/internal/quiz"
	"github.com/quizziebot/quizzie/internal/quizgen"
	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/screens/play"
	"github.com/quizziebot/quizzie/internal/screens/screentest"
)

func setup(t *testing.T) (*screentest.Backend, *deps.Deps, *CreateScreen, *screentest.Driver) {
	t.Helper()
	b := screentest.NewBackend()
	b.Analysis = api.ContextAnalysis{
		SuggestedTopics: []string{"Moons of Jupiter", "", "solar system", "Comets", "Comets"},
		KeyConcepts:     []string{"orbits"},
	}
	d := screentest.NewDeps(t, b)
	c := New(d)
	drv := screentest.NewDriver(t, &screentest.Root{}, nil)
	drv.Send(router.PushScreenMsg{Screen: c})
	return b, d, c, drv
}

func TestTopicSuggestions(t *testing.T) {
	_, _, c, drv := setup(t)

	drv.Type("Solar System")
	drv.Key("enter")

	if c.focus != focusLevel {
		t.Errorf("focus = %v, want level", c.focus)
	}
	want := []string{"Moons of Jupiter", "Comets"}
	if !slices.Equal(c.suggestions, want) {
		t.Fatalf("suggestions = %v, want %v", c.suggestions, want)
	}

	drv.Key("tab")
	drv.Key("down")
	drv.Key("enter")
	if c.topic.Value() != "Comets" {
		t.Errorf("topic = %q", c.topic.Value())
	}
}

func TestCreateUsesLevelPreset(t *testing.T) {
	b, d, c, drv := setup(t)

	drv.Type("Solar System")
	drv.Key("enter")
	drv.Key("right")
	if c.Level() != quiz.LevelIntermediate {
		t.Fatalf("level = %v", c.Level())
	}
	drv.Key("enter")

	if len(b.Created) != 1 {
		t.Fatalf("created = %d", len(b.Created))
	}
	want, _ := quiz.Preset(quiz.LevelIntermediate)
	if b.Created[0].MultipleChoiceCount != want.MultipleChoiceCount {
		t.Errorf("questions = %d, want %d", b.Created[0].MultipleChoiceCount, want.MultipleChoiceCount)
	}
	if _, ok := drv.Active().(*play.QuestionScreen); !ok {
		t.Fatalf("expected first question, got %T", drv.Active())
	}
	if d.Sessions.Len() != 1 {
		t.Errorf("sessions = %d", d.Sessions.Len())
	}
}

func TestCreateNeedsTopic(t *testing.T) {
	b, _, c, drv := setup(t)

	drv.Key("tab")
	drv.Key("enter")

	if c.errMsg == "" || len(b.Created) != 0 {
		t.Errorf("err %q created %d", c.errMsg, len(b.Created))
	}
	if c.focus != focusTopic {
		t.Errorf("focus = %v, want topic", c.focus)
	}
}

func TestLevelWraps(t *testing.T) {
	_, _, c, drv := setup(t)
	drv.Key("tab")

	drv.Key("left")
	if c.Level() != quiz.LevelAdvanced {
		t.Errorf("level = %v", c.Level())
	}
	drv.Key("right")
	if c.Level() != quiz.LevelBasic {
		t.Errorf("level = %v", c.Level())
	}
}

func TestPracticeModeGeneratesLocally(t *testing.T) {
	b, d, c, drv := setup(t)
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"topics":["Mars","Venus"]}`)},
		llm.MockResponse{Content: json.RawMessage(`{
			"topic": "Planets",
			"questions": [{
				"text": "Which planet is red?",
				"answers": [
					{"text": "Mars", "isCorrect": true},
					{"text": "Venus", "isCorrect": false}
				],
				"explanation": "Iron oxide.",
				"difficulty": "basic"
			}]
		}`)},
	)
	d.Generator = quizgen.New(mock, quizgen.DefaultConfig(), nil)

	drv.Key("ctrl+l")
	if !c.local {
		t.Fatal("ctrl+l should enable practice mode")
	}
	drv.Type("Planets")
	drv.Key("enter")
	if !slices.Equal(c.suggestions, []string{"Mars", "Venus"}) {
		t.Fatalf("suggestions = %v", c.suggestions)
	}
	drv.Key("enter")

	if _, ok := drv.Active().(*play.QuestionScreen); !ok {
		t.Fatalf("expected first question, got %T", drv.Active())
	}
	if len(b.Created) != 0 {
		t.Error("practice quizzes must not be created on the backend")
	}
	if len(mock.Calls()) != 2 {
		t.Errorf("llm calls = %d", len(mock.Calls()))
	}
}

func TestPracticeModeNeedsGenerator(t *testing.T) {
	_, _, c, drv := setup(t)
	drv.Key("ctrl+l")
	if c.local {
		t.Error("practice mode needs a generator")
	}
}

func TestFilterSuggestions(t *testing.T) {
	in := []string{"A", "b", "B", " ", "topic", "c", "d", "e", "f", "g"}
	got := filterSuggestions(in, "Topic")
	want := []string{"A", "b", "c", "d", "e"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
