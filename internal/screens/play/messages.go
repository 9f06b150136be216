package play

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/quizziebot/quizzie/internal/quiz"
	"github.com/quizziebot/quizzie/internal/session"
)

// tickMsg drives the countdown of one question.
type tickMsg struct {
	SessionID string
	Index     int
}

// transitionMsg fires a scheduled session transition.
type transitionMsg struct {
	SessionID string
	Token     uint64
}

// quizLoadedMsg carries the quiz fetched by the loader.
type quizLoadedMsg struct {
	Quiz quiz.Quiz
	Err  error
}

// submitDoneMsg is the backend's answer to a submission.
type submitDoneMsg struct {
	SessionID string
	Result    *quiz.Result
	Err       error
}

// historySavedMsg reports the local history write.
type historySavedMsg struct {
	Err error
}

// userRefreshedMsg reports the auth refresh after a submission.
type userRefreshedMsg struct {
	Err error
}

func tickAfter(sessionID string, index int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{SessionID: sessionID, Index: index}
	})
}

// fire turns a scheduled transition into a command. Zero delays fire
// without waiting for a timer.
func fire(t session.Transition) tea.Cmd {
	msg := transitionMsg{SessionID: t.SessionID, Token: t.Token}
	if t.Delay <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(t.Delay, func(time.Time) tea.Msg { return msg })
}
