package play

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/session"
	"github.com/quizziebot/quizzie/internal/ui/components"
	"github.com/quizziebot/quizzie/internal/ui/layout"
	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// OutcomeScreen shows whether the last answer was right, then advances on
// its own after the outcome delay. It takes no input.
type OutcomeScreen struct {
	deps      *deps.Deps
	sessionID string
	outcome   session.Outcome
	choices   components.MultiChoice

	handedOff bool
	errMsg    string
}

var (
	_ screen.Screen          = (*OutcomeScreen)(nil)
	_ screen.KeyHintProvider = (*OutcomeScreen)(nil)
	_ screen.EscInterceptor  = (*OutcomeScreen)(nil)
	_ screen.Closer          = (*OutcomeScreen)(nil)
)

// NewOutcome creates the outcome screen for the session's last answer.
func NewOutcome(d *deps.Deps, sessionID string) *OutcomeScreen {
	o := &OutcomeScreen{deps: d, sessionID: sessionID}
	s, ok := d.Sessions.Get(sessionID)
	if !ok {
		o.errMsg = session.ErrSessionNotFound.Error()
		return o
	}
	out, ok := s.LastOutcome()
	if !ok {
		o.errMsg = "no answer recorded"
		return o
	}
	o.outcome = out

	choices := make([]components.Choice, len(out.Question.Answers))
	for i, a := range out.Question.Answers {
		choices[i] = components.Choice{ID: a.ID, Text: a.Text}
	}
	o.choices = components.NewMultiChoice("", choices)
	correct, _ := out.Question.CorrectAnswer()
	chosen := ""
	if out.Answer.ChosenAnswerID != nil {
		chosen = *out.Answer.ChosenAnswerID
	}
	o.choices.Reveal(correct.ID, chosen)
	return o
}

func (o *OutcomeScreen) Init() tea.Cmd {
	s, ok := o.deps.Sessions.Get(o.sessionID)
	if !ok {
		return nil
	}
	tr, err := s.ScheduleAdvance()
	if err != nil {
		o.errMsg = err.Error()
		return nil
	}
	return fire(tr)
}

func (o *OutcomeScreen) Title() string {
	if o.outcome.Correct() {
		return "Correct!"
	}
	return "Incorrect"
}

func (o *OutcomeScreen) InterceptsEsc() bool { return true }

func (o *OutcomeScreen) Close() {
	if !o.handedOff {
		o.deps.Sessions.Abandon(o.sessionID)
	}
}

func (o *OutcomeScreen) KeyHints() []layout.KeyHint {
	if o.outcome.Last {
		return []layout.KeyHint{{Key: "", Description: "Results coming up..."}}
	}
	return []layout.KeyHint{{Key: "", Description: "Next question coming up..."}}
}

func (o *OutcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	tm, ok := msg.(transitionMsg)
	if !ok || tm.SessionID != o.sessionID {
		return o, nil
	}
	s, ok := o.deps.Sessions.Get(o.sessionID)
	if !ok {
		return o, nil
	}
	phase, err := s.Fire(tm.Token)
	if err != nil {
		return o, nil
	}
	switch phase {
	case session.PhaseAnswering:
		o.handedOff = true
		return o, router.Replace(NewQuestion(o.deps, o.sessionID))
	case session.PhaseSubmitting:
		o.handedOff = true
		return o, router.Replace(NewResult(o.deps, o.sessionID))
	}
	return o, nil
}

func (o *OutcomeScreen) View(width, height int) string {
	if o.errMsg != "" {
		return renderError(width, height, o.errMsg)
	}
	out := o.outcome

	var verdict string
	switch {
	case out.Correct():
		verdict = theme.Correct.Render("✓ CORRECT!")
	case out.Answer.TimedOut():
		verdict = theme.Incorrect.Render("⏱ TIME'S UP!")
	default:
		verdict = theme.Incorrect.Render("✗ INCORRECT")
	}

	var b strings.Builder
	b.WriteString(verdict)
	b.WriteString("\n\n")
	b.WriteString(renderQuestionText(out.Question.Text, width))
	b.WriteString("\n\n")
	b.WriteString(o.choices.View())
	if out.Question.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Width(min(width-8, 70)).
			Render(out.Question.Explanation))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("Score: %d", out.Score)))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
