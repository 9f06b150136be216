package signup

import (
	"slices"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/quizziebot/quizzie/internal/api"
	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/screens/screentest"
)

type parent struct{ signedIn []api.User }

func (p *parent) Init() tea.Cmd { return nil }
func (p *parent) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(deps.SignedInMsg); ok {
		p.signedIn = append(p.signedIn, m.User)
	}
	return p, nil
}
func (p *parent) View(int, int) string { return "parent" }
func (p *parent) Title() string        { return "Parent" }

func setup(t *testing.T) (*screentest.Backend, *deps.Deps, *parent, *screentest.Driver) {
	t.Helper()
	b := screentest.NewBackend()
	d := screentest.NewDeps(t, b)
	p := &parent{}
	drv := screentest.NewDriver(t, p, nil)
	drv.Send(router.PushScreenMsg{Screen: New(d)})
	return b, d, p, drv
}

func fillAccount(drv *screentest.Driver, username, email, password string) {
	drv.Type(username)
	drv.Key("enter")
	drv.Type(email)
	drv.Key("enter")
	drv.Type(password)
	drv.Key("enter")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  api.RegisterRequest
		want string
	}{
		{"ok", api.RegisterRequest{Username: "ada", Email: "a@b.c", Password: "secret"}, ""},
		{"missing", api.RegisterRequest{Username: "ada", Password: "secret"}, "All fields are required."},
		{"email", api.RegisterRequest{Username: "ada", Email: "ab.c", Password: "secret"}, "That doesn't look like an email address."},
		{"short", api.RegisterRequest{Username: "ada", Email: "a@b.c", Password: "12345"}, "Password must be at least 6 characters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validate(tt.req); got != tt.want {
				t.Errorf("validate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSignUpThenSurvey(t *testing.T) {
	b, d, p, drv := setup(t)

	fillAccount(drv, "grace", "grace@example.com", "hopper1")

	s, ok := drv.Active().(*SignUpScreen)
	if !ok || s.step != stepSurvey {
		t.Fatalf("expected survey step, got %T", drv.Active())
	}
	if id, ok := d.Auth.CurrentUserID(); !ok || id != "u-grace" {
		t.Fatalf("current user = %q %v", id, ok)
	}

	drv.Key("space")
	drv.Key("down")
	drv.Key("space")
	want := []string{s.topics[0].Slug, s.topics[1].Slug}
	if got := s.Selected(); !slices.Equal(got, want) {
		t.Fatalf("selected = %v, want %v", got, want)
	}

	drv.Key("enter")

	if drv.Active() != p {
		t.Fatalf("expected sign up to close, active is %T", drv.Active())
	}
	if !slices.Equal(b.Favorites["u-grace"], want) {
		t.Errorf("saved topics = %v", b.Favorites["u-grace"])
	}
	if len(p.signedIn) != 1 || p.signedIn[0].Username != "grace" {
		t.Errorf("parent got %+v", p.signedIn)
	}
}

func TestSurveyCanBeSkipped(t *testing.T) {
	b, _, p, drv := setup(t)
	fillAccount(drv, "grace", "grace@example.com", "hopper1")

	drv.Key("s")

	if drv.Active() != p || len(p.signedIn) != 1 {
		t.Fatalf("skip should finish sign up, active %T", drv.Active())
	}
	if _, saved := b.Favorites["u-grace"]; saved {
		t.Error("skipping must not save topics")
	}
}

func TestSignUpRejectsTakenEmail(t *testing.T) {
	b, _, _, drv := setup(t)
	b.AddUser(api.User{ID: "u1", Email: "grace@example.com"}, "whatever")

	fillAccount(drv, "grace", "grace@example.com", "hopper1")

	s := drv.Active().(*SignUpScreen)
	if s.step != stepAccount || s.errMsg != "Sign up failed: Email already registered" {
		t.Errorf("step %v err %q", s.step, s.errMsg)
	}
}

func TestSurveyTopicsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, tp := range flatTopics() {
		if seen[tp.Slug] {
			t.Errorf("duplicate topic %q", tp.Slug)
		}
		seen[tp.Slug] = true
	}
	if len(seen) == 0 {
		t.Fatal("no survey topics")
	}
}
