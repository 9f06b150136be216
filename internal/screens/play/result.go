package play

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/api"
	"github.com/quizziebot/quizzie/internal/quiz"
	"github.com/quizziebot/quizzie/internal/quizgen"
	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/screens/signin"
	"github.com/quizziebot/quizzie/internal/session"
	"github.com/quizziebot/quizzie/internal/store"
	"github.com/quizziebot/quizzie/internal/ui/components"
	"github.com/quizziebot/quizzie/internal/ui/layout"
	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// ResultScreen submits the finished session and shows the score. A failed
// submission stays on screen until the user retries with r.
type ResultScreen struct {
	deps      *deps.Deps
	sessionID string
	quiz      quiz.Quiz

	submission  quiz.Submission
	submitting  bool
	needsSignIn bool
	result      *quiz.Result
	errMsg      string

	menu components.Menu
}

var (
	_ screen.Screen          = (*ResultScreen)(nil)
	_ screen.KeyHintProvider = (*ResultScreen)(nil)
	_ screen.Closer          = (*ResultScreen)(nil)
)

// NewResult creates the result screen for a session in the submitting phase.
func NewResult(d *deps.Deps, sessionID string) *ResultScreen {
	r := &ResultScreen{deps: d, sessionID: sessionID}
	if s, ok := d.Sessions.Get(sessionID); ok {
		r.quiz = s.Quiz()
	}
	r.menu = components.NewMenu([]components.MenuItem{
		{Label: "PLAY AGAIN", Action: r.playAgain},
		{Label: "HOME", Action: func() tea.Cmd { return router.PopToRoot }},
	})
	return r
}

func (r *ResultScreen) Init() tea.Cmd {
	return r.submit()
}

func (r *ResultScreen) Title() string { return "Results" }

// Close forgets the session once the user leaves the results.
func (r *ResultScreen) Close() {
	r.deps.Sessions.Abandon(r.sessionID)
}

func (r *ResultScreen) KeyHints() []layout.KeyHint {
	switch {
	case r.submitting:
		return []layout.KeyHint{{Key: "", Description: "Submitting..."}}
	case r.needsSignIn:
		return []layout.KeyHint{
			{Key: "S", Description: "Sign in to submit"},
			{Key: "Esc", Description: "Discard"},
		}
	case r.errMsg != "":
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}

// submit starts the submission, or redirects to sign-in when the quiz
// needs an account. Quizzes generated on-device are scored locally.
func (r *ResultScreen) submit() tea.Cmd {
	s, ok := r.deps.Sessions.Get(r.sessionID)
	if !ok {
		r.errMsg = session.ErrSessionNotFound.Error()
		return nil
	}

	local := quizgen.IsLocal(r.quiz.ID)
	userID, signedIn := r.deps.Auth.CurrentUserID()
	if !local && !signedIn {
		r.needsSignIn = true
		return router.Push(signin.New(r.deps))
	}

	sub, err := s.BeginSubmit(userID)
	switch {
	case errors.Is(err, session.ErrAlreadySubmitted):
		if res, ok := s.Result(); ok {
			r.result = &res
		}
		return nil
	case errors.Is(err, session.ErrSubmitInFlight):
		return nil
	case err != nil:
		r.errMsg = err.Error()
		return nil
	}

	r.submission = sub
	r.submitting = true
	r.errMsg = ""

	if local {
		res := s.LocalResult()
		return func() tea.Msg {
			return submitDoneMsg{SessionID: r.sessionID, Result: &res}
		}
	}
	ctx := r.deps.Context()
	backend := r.deps.Backend
	id := r.sessionID
	return func() tea.Msg {
		res, err := backend.SubmitResult(ctx, sub)
		return submitDoneMsg{SessionID: id, Result: res, Err: err}
	}
}

func (r *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submitDoneMsg:
		if msg.SessionID != r.sessionID {
			return r, nil
		}
		return r, r.handleSubmitted(msg)

	case deps.SignedInMsg:
		if r.needsSignIn {
			r.needsSignIn = false
			return r, r.submit()
		}
		return r, nil

	case historySavedMsg:
		if msg.Err != nil {
			r.deps.Log().Warn("save result history", "session", r.sessionID, "err", msg.Err)
		}
		return r, nil

	case userRefreshedMsg:
		if msg.Err != nil {
			r.deps.Log().Warn("refresh user after submit", "err", msg.Err)
		}
		return r, nil

	case tea.KeyMsg:
		return r, r.handleKey(msg)
	}
	return r, nil
}

func (r *ResultScreen) handleSubmitted(msg submitDoneMsg) tea.Cmd {
	r.submitting = false
	s, ok := r.deps.Sessions.Get(r.sessionID)
	if !ok {
		return nil
	}

	if msg.Err == nil && msg.Result == nil {
		msg.Err = errors.New("empty response")
	}
	if msg.Err != nil {
		s.FailSubmit()
		r.deps.Log().Warn("submit result", "session", r.sessionID, "err", msg.Err)
		if api.IsStatus(msg.Err, http.StatusUnauthorized) {
			r.needsSignIn = true
			return router.Push(signin.New(r.deps))
		}
		r.errMsg = deps.ErrorText("Couldn't submit your answers", msg.Err)
		return nil
	}

	res := *msg.Result
	if res.TotalQuestions == 0 {
		res.TotalQuestions = s.Total()
	}
	s.CompleteSubmit(res)
	r.result = &res

	cmds := []tea.Cmd{r.saveHistory(res)}
	if !res.Local {
		cmds = append(cmds, r.refreshUser())
	}
	return tea.Batch(cmds...)
}

func (r *ResultScreen) saveHistory(res quiz.Result) tea.Cmd {
	if r.deps.Results == nil {
		return nil
	}
	rec := store.ResultRecord{
		SessionID:      r.sessionID,
		QuizID:         r.quiz.ID,
		Topic:          r.quiz.Topic,
		UserID:         r.submission.UserID,
		CorrectAnswers: res.CorrectAnswers,
		TotalQuestions: res.TotalQuestions,
		TotalScore:     res.NewTotalScore,
		CoinsEarned:    res.CoinsEarned,
		XPEarned:       res.XPEarned,
		TotalTime:      r.submission.TotalTime,
		Local:          res.Local,
	}
	repo := r.deps.Results
	ctx := r.deps.Context()
	return func() tea.Msg {
		return historySavedMsg{Err: repo.Append(ctx, rec)}
	}
}

func (r *ResultScreen) refreshUser() tea.Cmd {
	a := r.deps.Auth
	ctx := r.deps.Context()
	return func() tea.Msg {
		return userRefreshedMsg{Err: a.Refresh(ctx)}
	}
}

func (r *ResultScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case r.submitting:
		return nil
	case r.needsSignIn:
		if msg.String() == "s" {
			return router.Push(signin.New(r.deps))
		}
		return nil
	case r.result == nil:
		if msg.String() == "r" {
			return r.submit()
		}
		return nil
	}
	var cmd tea.Cmd
	r.menu, cmd = r.menu.Update(msg)
	return cmd
}

// playAgain starts a fresh session over the same questions.
func (r *ResultScreen) playAgain() tea.Cmd {
	s, err := r.deps.Sessions.Restart(r.sessionID)
	if err != nil {
		r.errMsg = err.Error()
		return nil
	}
	return router.Replace(NewQuestion(r.deps, s.ID()))
}

func (r *ResultScreen) View(width, height int) string {
	switch {
	case r.submitting:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Submitting your answers..."))
	case r.needsSignIn:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Body.Render("Sign in to save your score.\n\nPress S to sign in."))
	case r.result == nil && r.errMsg != "":
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Alert.Render(r.errMsg)+"\n\n"+theme.Hint.Render("Press R to try again"))
	case r.result == nil:
		return ""
	}

	res := r.result
	cw := components.ContentWidth(width)
	var sections []string

	headline := "QUIZ COMPLETE"
	if res.TotalQuestions > 0 && res.CorrectAnswers == res.TotalQuestions {
		headline = "PERFECT SCORE!"
	}
	sections = append(sections, lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(headline))

	sections = append(sections, components.ArcadeCard(renderScoreCard(*res), cw))

	if len(res.SuggestedTopics) > 0 {
		sections = append(sections, renderList("Try next", res.SuggestedTopics))
	}
	if len(res.RelatedQuizzes) > 0 {
		topics := make([]string, 0, len(res.RelatedQuizzes))
		for _, q := range res.RelatedQuizzes {
			topics = append(topics, q.Topic)
		}
		sections = append(sections, renderList("Related quizzes", topics))
	}
	if r.errMsg != "" {
		sections = append(sections, theme.Alert.Render(r.errMsg))
	}
	sections = append(sections, r.renderMenu(cw))

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func renderScoreCard(res quiz.Result) string {
	lines := []string{
		components.StatRow("Correct", fmt.Sprintf("%d / %d", res.CorrectAnswers, res.TotalQuestions), 9),
	}
	if res.TotalQuestions > 0 {
		frac := float64(res.CorrectAnswers) / float64(res.TotalQuestions)
		lines = append(lines, components.NewProgressBar("Accuracy", frac, true, 36).View())
	}
	if res.Local {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render("Practice quiz, score not submitted"))
	} else {
		lines = append(lines,
			components.StatRow("Score", fmt.Sprintf("%d", res.NewTotalScore), 9),
			components.StatRow("Coins", lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(fmt.Sprintf("+%d", res.CoinsEarned)), 9),
			components.StatRow("XP", lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render(fmt.Sprintf("+%d", res.XPEarned)), 9),
		)
	}
	return strings.Join(lines, "\n")
}

func renderList(title string, items []string) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(title))
	for _, it := range items {
		b.WriteString("\n")
		b.WriteString(theme.Body.Render("• " + it))
	}
	return b.String()
}

func (r *ResultScreen) renderMenu(cw int) string {
	buttons := make([]string, len(r.menu.Items))
	for i, item := range r.menu.Items {
		buttons[i] = components.ArcadeButton(item.Label, i == r.menu.Selected, 20)
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(buttons, "\n"))
}
