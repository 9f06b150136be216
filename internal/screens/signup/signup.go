// Package signup creates an account, then offers the optional
// favourite-topics survey.
package signup

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/api"
	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/ui/components"
	"github.com/quizziebot/quizzie/internal/ui/layout"
	"github.com/quizziebot/quizzie/internal/ui/theme"
)

const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
)

type step int

const (
	stepAccount step = iota
	stepSurvey
)

type signUpDoneMsg struct {
	User *api.User
	Err  error
}

type topicsSavedMsg struct {
	Err error
}

// SignUpScreen registers a new account.
type SignUpScreen struct {
	deps *deps.Deps
	step step
	form components.Form

	topics   []Topic
	cursor   int
	selected map[string]bool

	user    *api.User
	pending bool
	errMsg  string
}

var (
	_ screen.Screen          = (*SignUpScreen)(nil)
	_ screen.KeyHintProvider = (*SignUpScreen)(nil)
)

// New creates the sign-up form.
func New(d *deps.Deps) *SignUpScreen {
	return &SignUpScreen{
		deps: d,
		form: components.NewForm(
			components.NewTextInput("Username", "", 32),
			components.NewTextInput("Email", "you@example.com", 64),
			components.NewPasswordInput("Password", "at least 6 characters", 64),
		),
		topics:   flatTopics(),
		selected: make(map[string]bool),
	}
}

func (s *SignUpScreen) Init() tea.Cmd { return s.form.Inputs[0].Init() }

func (s *SignUpScreen) Title() string {
	if s.step == stepSurvey {
		return "Pick your topics"
	}
	return "Sign Up"
}

func (s *SignUpScreen) KeyHints() []layout.KeyHint {
	if s.step == stepSurvey {
		return []layout.KeyHint{
			{Key: "Space", Description: "Toggle"},
			{Key: "Enter", Description: "Save"},
			{Key: "S", Description: "Skip"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Create account"},
		{Key: "Esc", Description: "Back"},
	}
}

// Selected returns the chosen topic slugs in survey order.
func (s *SignUpScreen) Selected() []string {
	var out []string
	for _, t := range s.topics {
		if s.selected[t.Slug] {
			out = append(out, t.Slug)
		}
	}
	return out
}

func (s *SignUpScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signUpDoneMsg:
		s.pending = false
		if msg.Err != nil {
			s.errMsg = deps.ErrorText("Sign up failed", msg.Err)
			return s, nil
		}
		s.deps.Log().Info("account created", "user", msg.User.ID)
		s.user = msg.User
		s.step = stepSurvey
		s.errMsg = ""
		return s, nil

	case topicsSavedMsg:
		s.pending = false
		if msg.Err != nil {
			// The account exists either way; the survey is optional.
			s.deps.Log().Warn("save favorite topics", "err", msg.Err)
		}
		return s, s.finish()

	case tea.KeyMsg:
		if s.pending {
			return s, nil
		}
		if s.step == stepSurvey {
			return s, s.handleSurveyKey(msg)
		}
		if msg.String() == "enter" {
			if !s.form.Last() {
				return s, s.form.Next()
			}
			return s, s.submit()
		}
	}

	if s.step == stepAccount {
		var cmd tea.Cmd
		s.form, cmd = s.form.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SignUpScreen) submit() tea.Cmd {
	req := api.RegisterRequest{
		Username:       s.form.Value(fieldUsername),
		Email:          s.form.Value(fieldEmail),
		Password:       s.form.Value(fieldPassword),
		FavoriteTopics: []string{},
	}
	if msg := validate(req); msg != "" {
		s.errMsg = msg
		return nil
	}

	s.errMsg = ""
	s.pending = true
	a := s.deps.Auth
	ctx := s.deps.Context()
	return func() tea.Msg {
		u, err := a.SignUp(ctx, req)
		return signUpDoneMsg{User: u, Err: err}
	}
}

func validate(req api.RegisterRequest) string {
	switch {
	case req.Username == "" || req.Email == "" || req.Password == "":
		return "All fields are required."
	case !strings.Contains(req.Email, "@"):
		return "That doesn't look like an email address."
	case len(req.Password) < 6:
		return "Password must be at least 6 characters."
	}
	return ""
}

func (s *SignUpScreen) handleSurveyKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.topics)-1 {
			s.cursor++
		}
	case "space", " ":
		slug := s.topics[s.cursor].Slug
		s.selected[slug] = !s.selected[slug]
	case "s":
		return s.finish()
	case "enter":
		topics := s.Selected()
		if len(topics) == 0 {
			return s.finish()
		}
		s.pending = true
		backend := s.deps.Backend
		ctx := s.deps.Context()
		id := s.user.ID
		return func() tea.Msg {
			return topicsSavedMsg{Err: backend.UpdateFavoriteTopics(ctx, id, topics)}
		}
	}
	return nil
}

func (s *SignUpScreen) finish() tea.Cmd {
	return router.PopWith(deps.SignedInMsg{User: *s.user})
}

func (s *SignUpScreen) View(width, height int) string {
	if s.step == stepSurvey {
		return s.viewSurvey(width, height)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Create your account"))
	b.WriteString("\n\n")
	b.WriteString(s.form.View())
	b.WriteString("\n\n")
	switch {
	case s.pending:
		b.WriteString(theme.Hint.Render("Creating account..."))
	case s.errMsg != "":
		b.WriteString(theme.Alert.Render(s.errMsg))
	}
	card := theme.Card.Width(min(width-4, 56)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *SignUpScreen) viewSurvey(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("What do you like?"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("We'll recommend quizzes on these topics"))
	b.WriteString("\n\n")

	// Scroll so the cursor stays visible.
	visible := max(height-8, 5)
	start := 0
	if s.cursor >= visible {
		start = s.cursor - visible + 1
	}
	end := min(start+visible, len(s.topics))

	for i := start; i < end; i++ {
		t := s.topics[i]
		box := "[ ]"
		if s.selected[t.Slug] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, t.Name)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if s.selected[t.Slug] {
			style = lipgloss.NewStyle().Foreground(theme.Success)
		}
		if i == s.cursor {
			line = "▸ " + line
			style = style.Bold(true).Foreground(theme.Primary)
		} else {
			line = "  " + line
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	if s.pending {
		b.WriteString("\n" + theme.Hint.Render("Saving..."))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
