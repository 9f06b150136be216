package play

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/quiz"
	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/ui/components"
	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// FetchFunc produces the quiz to play.
type FetchFunc func(ctx context.Context) (quiz.Quiz, error)

// LoaderScreen fetches a quiz, starts a session over it and replaces
// itself with the first question.
type LoaderScreen struct {
	deps    *deps.Deps
	title   string
	fetch   FetchFunc
	loader  components.Loader
	loading bool
	errMsg  string
}

var _ screen.Screen = (*LoaderScreen)(nil)

// NewLoader creates a loader that runs fetch. caption is shown while waiting.
func NewLoader(d *deps.Deps, title, caption string, fetch FetchFunc) *LoaderScreen {
	return &LoaderScreen{
		deps:    d,
		title:   title,
		fetch:   fetch,
		loader:  components.NewLoader(caption),
		loading: true,
	}
}

// ByID loads an existing quiz from the backend.
func ByID(d *deps.Deps, quizID string) *LoaderScreen {
	return NewLoader(d, "Loading", "Fetching questions...", func(ctx context.Context) (quiz.Quiz, error) {
		return d.Backend.GetQuiz(ctx, quizID)
	})
}

// Start plays q directly, without fetching.
func Start(d *deps.Deps, q quiz.Quiz) *LoaderScreen {
	return NewLoader(d, "Loading", "Get ready...", func(context.Context) (quiz.Quiz, error) {
		return q, nil
	})
}

func (l *LoaderScreen) Init() tea.Cmd {
	fetch := l.fetch
	ctx := l.deps.Context()
	return tea.Batch(l.loader.Init(), func() tea.Msg {
		q, err := fetch(ctx)
		return quizLoadedMsg{Quiz: q, Err: err}
	})
}

func (l *LoaderScreen) Title() string { return l.title }

func (l *LoaderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizLoadedMsg:
		l.loading = false
		if msg.Err != nil {
			l.deps.Log().Warn("load quiz", "err", msg.Err)
			l.errMsg = deps.ErrorText("Couldn't load the quiz", msg.Err)
			return l, nil
		}
		s, err := l.deps.Sessions.Start(msg.Quiz)
		if err != nil {
			l.errMsg = describeStartError(err)
			return l, nil
		}
		l.deps.Log().Info("quiz started", "session", s.ID(), "quiz", msg.Quiz.ID, "questions", s.Total())
		return l, router.Replace(NewQuestion(l.deps, s.ID()))
	}

	if l.loading {
		var cmd tea.Cmd
		l.loader, cmd = l.loader.Update(msg)
		return l, cmd
	}
	return l, nil
}

func describeStartError(err error) string {
	switch {
	case errors.Is(err, quiz.ErrNoQuestions):
		return "No questions found."
	case errors.Is(err, quiz.ErrAmbiguousAnswerKey):
		return "This quiz has a question without exactly one correct answer."
	}
	return err.Error()
}

func (l *LoaderScreen) View(width, height int) string {
	if l.errMsg != "" {
		return renderError(width, height, l.errMsg)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Render(l.loader.View()))
}
