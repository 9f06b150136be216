// Package signin is the email and password sign-in form.
package signin

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/api"
	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/screens/signup"
	"github.com/quizziebot/quizzie/internal/ui/components"
	"github.com/quizziebot/quizzie/internal/ui/layout"
	"github.com/quizziebot/quizzie/internal/ui/theme"
)

const (
	fieldEmail = iota
	fieldPassword
)

type signInDoneMsg struct {
	User *api.User
	Err  error
}

// SignInScreen signs the user in and pops itself, telling the screen
// below with deps.SignedInMsg.
type SignInScreen struct {
	deps    *deps.Deps
	form    components.Form
	pending bool
	errMsg  string
}

var (
	_ screen.Screen          = (*SignInScreen)(nil)
	_ screen.KeyHintProvider = (*SignInScreen)(nil)
)

// New creates the sign-in form.
func New(d *deps.Deps) *SignInScreen {
	return &SignInScreen{
		deps: d,
		form: components.NewForm(
			components.NewTextInput("Email", "you@example.com", 64),
			components.NewPasswordInput("Password", "", 64),
		),
	}
}

func (s *SignInScreen) Init() tea.Cmd { return s.form.Inputs[0].Init() }

func (s *SignInScreen) Title() string { return "Sign In" }

func (s *SignInScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+N", Description: "Create account"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SignInScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signInDoneMsg:
		s.pending = false
		if msg.Err != nil {
			s.errMsg = deps.ErrorText("Sign in failed", msg.Err)
			s.deps.Log().Info("sign in failed", "err", msg.Err)
			return s, nil
		}
		s.deps.Log().Info("signed in", "user", msg.User.ID)
		return s, router.PopWith(deps.SignedInMsg{User: *msg.User})

	case tea.KeyMsg:
		if s.pending {
			return s, nil
		}
		switch msg.String() {
		case "ctrl+n":
			return s, router.Replace(signup.New(s.deps))
		case "enter":
			if !s.form.Last() {
				return s, s.form.Next()
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	return s, cmd
}

func (s *SignInScreen) submit() tea.Cmd {
	email := s.form.Value(fieldEmail)
	password := s.form.Value(fieldPassword)
	if email == "" || password == "" {
		s.errMsg = "Enter your email and password."
		return nil
	}
	if !strings.Contains(email, "@") {
		s.errMsg = "That doesn't look like an email address."
		return nil
	}

	s.errMsg = ""
	s.pending = true
	a := s.deps.Auth
	ctx := s.deps.Context()
	return func() tea.Msg {
		u, err := a.SignIn(ctx, email, password)
		return signInDoneMsg{User: u, Err: err}
	}
}

func (s *SignInScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Welcome back"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Sign in to save your scores"))
	b.WriteString("\n\n")
	b.WriteString(s.form.View())
	b.WriteString("\n\n")
	switch {
	case s.pending:
		b.WriteString(theme.Hint.Render("Signing in..."))
	case s.errMsg != "":
		b.WriteString(theme.Alert.Render(s.errMsg))
	}

	card := theme.Card.Width(min(width-4, 56)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
