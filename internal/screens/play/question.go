// Package play holds the quiz-taking flow: a question screen per question,
// an outcome screen after each answer, and the result screen. Screens hold
// only the session ID; the session itself lives in the registry.
package play

import (
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/session"
	"github.com/quizziebot/quizzie/internal/ui/components"
	"github.com/quizziebot/quizzie/internal/ui/layout"
)

// QuestionScreen shows the current question with its countdown.
type QuestionScreen struct {
	deps      *deps.Deps
	sessionID string
	choices   components.MultiChoice

	confirmQuit bool
	handedOff   bool
	errMsg      string
}

var (
	_ screen.Screen          = (*QuestionScreen)(nil)
	_ screen.KeyHintProvider = (*QuestionScreen)(nil)
	_ screen.EscInterceptor  = (*QuestionScreen)(nil)
	_ screen.Closer          = (*QuestionScreen)(nil)
)

// NewQuestion creates the screen for the session's current question.
func NewQuestion(d *deps.Deps, sessionID string) *QuestionScreen {
	q := &QuestionScreen{deps: d, sessionID: sessionID}
	s, ok := d.Sessions.Get(sessionID)
	if !ok {
		q.errMsg = session.ErrSessionNotFound.Error()
		return q
	}
	question := s.Question()
	choices := make([]components.Choice, len(question.Answers))
	for i, a := range question.Answers {
		choices[i] = components.Choice{ID: a.ID, Text: a.Text}
	}
	q.choices = components.NewMultiChoice("", choices)
	return q
}

func (q *QuestionScreen) session() (*session.Session, bool) {
	return q.deps.Sessions.Get(q.sessionID)
}

func (q *QuestionScreen) Init() tea.Cmd {
	s, ok := q.session()
	if !ok || s.Phase() != session.PhaseAnswering {
		return nil
	}
	return tickAfter(q.sessionID, s.Index(), s.Options().TickInterval)
}

func (q *QuestionScreen) Title() string {
	if s, ok := q.session(); ok {
		return s.Quiz().Topic
	}
	return "Quiz"
}

func (q *QuestionScreen) InterceptsEsc() bool { return true }

// Close abandons the session unless it was handed to the outcome screen.
func (q *QuestionScreen) Close() {
	if !q.handedOff {
		q.deps.Sessions.Abandon(q.sessionID)
	}
}

func (q *QuestionScreen) KeyHints() []layout.KeyHint {
	if q.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave quiz"},
			{Key: "N", Description: "Keep playing"},
		}
	}
	return []layout.KeyHint{
		{Key: "A-F", Description: "Answer"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (q *QuestionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s, ok := q.session()
	if !ok {
		return q, nil
	}

	switch msg := msg.(type) {
	case tickMsg:
		if msg.SessionID != q.sessionID {
			return q, nil
		}
		if q.confirmQuit {
			// Paused while the quit prompt is up.
			return q, tickAfter(msg.SessionID, msg.Index, s.Options().TickInterval)
		}
		res, ok := s.Tick(msg.Index)
		if !ok {
			return q, nil
		}
		if res.Expired {
			q.choices.Lock()
			q.deps.Log().Debug("question timed out", "session", q.sessionID, "index", msg.Index)
			return q, fire(res.Transition)
		}
		return q, tickAfter(msg.SessionID, msg.Index, s.Options().TickInterval)

	case components.ChoiceMsg:
		out, tr, err := s.Select(msg.ID)
		if err != nil {
			if !errors.Is(err, session.ErrLocked) {
				q.errMsg = err.Error()
			}
			return q, nil
		}
		q.deps.Log().Debug("answer selected", "session", q.sessionID,
			"index", out.Index, "correct", out.Correct())
		return q, fire(tr)

	case transitionMsg:
		if msg.SessionID != q.sessionID {
			return q, nil
		}
		phase, err := s.Fire(msg.Token)
		if err != nil || phase != session.PhaseTransitioning {
			return q, nil
		}
		q.handedOff = true
		return q, router.Replace(NewOutcome(q.deps, q.sessionID))

	case tea.KeyMsg:
		return q.handleKey(msg, s)
	}

	return q, nil
}

func (q *QuestionScreen) handleKey(msg tea.KeyMsg, s *session.Session) (screen.Screen, tea.Cmd) {
	if q.confirmQuit {
		switch msg.String() {
		case "y", "Y":
			q.deps.Sessions.Abandon(q.sessionID)
			return q, router.Pop
		case "n", "N", "esc":
			q.confirmQuit = false
		}
		return q, nil
	}

	if msg.String() == "esc" {
		if s.Phase() == session.PhaseAnswering {
			q.confirmQuit = true
		}
		return q, nil
	}

	var cmd tea.Cmd
	q.choices, cmd = q.choices.Update(msg)
	return q, cmd
}

func (q *QuestionScreen) View(width, height int) string {
	if q.errMsg != "" {
		return renderError(width, height, q.errMsg)
	}
	s, ok := q.session()
	if !ok {
		return renderError(width, height, session.ErrSessionNotFound.Error())
	}
	p := s.Progress()
	if q.confirmQuit {
		return renderQuitConfirm(width, height, p)
	}

	header := renderStatusLine(p, width)
	body := fmt.Sprintf("%s\n\n%s", renderQuestionText(p.Question.Text, width), q.choices.View())
	timer := components.TimerBar(p.Remaining, p.Ticks, min(width-8, 60))
	return renderPlayFrame(header, timer, body, width, height)
}
