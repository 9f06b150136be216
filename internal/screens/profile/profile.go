// Package profile shows the signed-in user and their play statistics.
package profile

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

type statsLoadedMsg struct {
	Stats *api.UserStatistics
	Err   error
}

type signedOutMsg struct{ Err error }

type savedMsg struct {
	User *api.User
	Err  error
}

const (
	fieldUsername = iota
	fieldAvatar
)

// ProfileScreen shows account details. Statistics are optional; a failed
// load leaves the account card on screen. Pressing e opens an edit form
// for the username and avatar.
type ProfileScreen struct {
	deps   *deps.Deps
	user   api.User
	stats  *api.UserStatistics
	loaded bool
	errMsg string

	editing bool
	saving  bool
	form    components.Form
	editErr string
	notice  string
}

var (
	_ screen.Screen          = (*ProfileScreen)(nil)
	_ screen.KeyHintProvider = (*ProfileScreen)(nil)
	_ screen.EscInterceptor  = (*ProfileScreen)(nil)
)

func New(d *deps.Deps) *ProfileScreen {
	return &ProfileScreen{deps: d}
}

func (p *ProfileScreen) Init() tea.Cmd {
	u, ok := p.deps.Auth.Current()
	if !ok {
		p.loaded = true
		return nil
	}
	p.user = u
	ctx := p.deps.Context()
	backend := p.deps.Backend
	return func() tea.Msg {
		st, err := backend.GetUserStatistics(ctx, u.ID)
		return statsLoadedMsg{Stats: st, Err: err}
	}
}

func (p *ProfileScreen) Title() string { return "Profile" }

func (p *ProfileScreen) KeyHints() []layout.KeyHint {
	if p.editing {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "e", Description: "Edit"},
		{Key: "o", Description: "Sign out"},
		{Key: "Esc", Description: "Back"},
	}
}

// InterceptsEsc keeps Esc inside the edit form.
func (p *ProfileScreen) InterceptsEsc() bool { return p.editing }

// Editing reports whether the edit form is open.
func (p *ProfileScreen) Editing() bool { return p.editing }

func (p *ProfileScreen) startEdit() tea.Cmd {
	username := components.NewTextInput("Username", "", 32)
	username.SetValue(p.user.Username)
	avatar := components.NewTextInput("Avatar URL", "https://...", 256)
	avatar.SetValue(p.user.Avatar)
	p.form = components.NewForm(username, avatar)
	p.editing = true
	p.editErr = ""
	p.notice = ""
	return p.form.Inputs[0].Init()
}

// save sends only the fields that changed, then caches the returned user.
func (p *ProfileScreen) save() tea.Cmd {
	username := p.form.Value(fieldUsername)
	avatar := p.form.Value(fieldAvatar)
	if username == "" {
		p.editErr = "Username can't be empty."
		return nil
	}
	if username == p.user.Username && avatar == p.user.Avatar {
		p.editing = false
		return nil
	}

	p.editErr = ""
	p.saving = true
	cur := p.user
	backend := p.deps.Backend
	a := p.deps.Auth
	ctx := p.deps.Context()
	return func() tea.Msg {
		u := &cur
		var err error
		if username != cur.Username {
			if u, err = backend.UpdateUser(ctx, cur.ID, api.UserUpdate{Username: username}); err != nil {
				return savedMsg{Err: err}
			}
		}
		if avatar != cur.Avatar {
			if u, err = backend.UpdateAvatar(ctx, cur.ID, avatar); err != nil {
				return savedMsg{Err: err}
			}
		}
		if u.ID == "" {
			u.ID = cur.ID
		}
		if err := a.Update(ctx, *u); err != nil {
			return savedMsg{Err: err}
		}
		return savedMsg{User: u}
	}
}

func (p *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		p.loaded = true
		if msg.Err != nil {
			p.deps.Log().Warn("load statistics", "err", msg.Err)
			p.errMsg = deps.ErrorText("Couldn't load your statistics", msg.Err)
			return p, nil
		}
		p.stats = msg.Stats
		return p, nil

	case savedMsg:
		p.saving = false
		if msg.Err != nil {
			p.deps.Log().Warn("update profile", "err", msg.Err)
			p.editErr = deps.ErrorText("Couldn't save your profile", msg.Err)
			return p, nil
		}
		p.user = *msg.User
		p.editing = false
		p.notice = "Profile updated."
		return p, nil

	case signedOutMsg:
		if msg.Err != nil {
			p.errMsg = deps.ErrorText("Sign out failed", msg.Err)
			return p, nil
		}
		return p, router.PopToRoot

	case tea.KeyMsg:
		if p.editing {
			return p, p.updateForm(msg)
		}
		if p.user.ID == "" {
			return p, nil
		}
		switch msg.String() {
		case "e":
			return p, p.startEdit()
		case "o":
			a := p.deps.Auth
			ctx := p.deps.Context()
			return p, func() tea.Msg { return signedOutMsg{Err: a.SignOut(ctx)} }
		}
	}
	return p, nil
}

func (p *ProfileScreen) updateForm(msg tea.KeyMsg) tea.Cmd {
	if p.saving {
		return nil
	}
	switch msg.String() {
	case "esc":
		p.editing = false
		p.editErr = ""
		return nil
	case "enter":
		if !p.form.Last() {
			return p.form.Next()
		}
		return p.save()
	}
	var cmd tea.Cmd
	p.form, cmd = p.form.Update(msg)
	return cmd
}

func (p *ProfileScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if p.user.ID == "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("You're playing as a guest. Sign in from the home screen."))
	}

	if p.editing {
		return p.editView(width, height, cw)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(p.user.Username))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(p.user.Email))
	b.WriteString("\n\n")
	if p.notice != "" {
		b.WriteString(theme.Hint.Render(p.notice) + "\n\n")
	}
	b.WriteString(statLine("Score", fmt.Sprintf("★ %d", p.user.Score)))
	if len(p.user.FavoriteTopics) > 0 {
		b.WriteString(statLine("Favourite topics", strings.Join(p.user.FavoriteTopics, ", ")))
	}

	switch {
	case !p.loaded:
		b.WriteString("\n" + theme.Hint.Render("Loading statistics..."))
	case p.errMsg != "":
		b.WriteString("\n" + theme.Alert.Render(p.errMsg))
	case p.stats != nil:
		st := p.stats
		b.WriteString("\n")
		b.WriteString(statLine("Quizzes taken", fmt.Sprintf("%d", st.QuizzesTaken)))
		b.WriteString(statLine("Correct answers", fmt.Sprintf("%d / %d", st.CorrectAnswers, st.TotalQuestions)))
		b.WriteString(statLine("Accuracy", fmt.Sprintf("%.0f%%", st.Accuracy)))
		b.WriteString(statLine("Coins", fmt.Sprintf("%d", st.Coins)))
		b.WriteString(statLine("XP", fmt.Sprintf("%d", st.XP)))
		if st.Rank > 0 {
			b.WriteString(statLine("Rank", fmt.Sprintf("#%d", st.Rank)))
		}
	}

	card := components.ArcadeCard(b.String(), min(cw, 60))
	return components.CabinetFrame(lipgloss.PlaceHorizontal(cw, lipgloss.Center, card), width, height)
}

func (p *ProfileScreen) editView(width, height, cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Edit profile"))
	b.WriteString("\n\n")
	b.WriteString(p.form.View())
	b.WriteString("\n\n")
	switch {
	case p.saving:
		b.WriteString(theme.Hint.Render("Saving..."))
	case p.editErr != "":
		b.WriteString(theme.Alert.Render(p.editErr))
	}
	card := components.ArcadeCard(b.String(), min(cw, 60))
	return components.CabinetFrame(lipgloss.PlaceHorizontal(cw, lipgloss.Center, card), width, height)
}

func statLine(label, value string) string {
	return components.StatRow(label, value, 18) + "\n"
}
