package signin

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/quizziebot/quizzie/internal/api"
	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/screens/screentest"
	"github.com/quizziebot/quizzie/internal/screens/signup"
)

// parent records what the sign-in form hands back.
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
	b.AddUser(api.User{ID: "u1", Username: "ada", Email: "ada@example.com"}, "secret")
	d := screentest.NewDeps(t, b)
	p := &parent{}
	drv := screentest.NewDriver(t, p, nil)
	drv.Send(router.PushScreenMsg{Screen: New(d)})
	return b, d, p, drv
}

func TestSignInSuccessReturnsUser(t *testing.T) {
	_, d, p, drv := setup(t)

	drv.Type("ada@example.com")
	drv.Key("enter")
	drv.Type("secret")
	drv.Key("enter")

	if drv.Active() != p {
		t.Fatalf("expected form to close, active is %T", drv.Active())
	}
	if len(p.signedIn) != 1 || p.signedIn[0].ID != "u1" {
		t.Fatalf("parent got %+v", p.signedIn)
	}
	if id, ok := d.Auth.CurrentUserID(); !ok || id != "u1" {
		t.Errorf("current user = %q %v", id, ok)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	_, d, p, drv := setup(t)

	drv.Type("ada@example.com")
	drv.Key("tab")
	drv.Type("nope")
	drv.Key("enter")

	s, ok := drv.Active().(*SignInScreen)
	if !ok {
		t.Fatalf("form should stay open, active is %T", drv.Active())
	}
	if !strings.Contains(s.errMsg, "Invalid email or password") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if len(p.signedIn) != 0 {
		t.Error("parent should not be told about a failed sign in")
	}
	if _, ok := d.Auth.Current(); ok {
		t.Error("no user should be signed in")
	}
}

func TestSignInValidatesLocally(t *testing.T) {
	_, _, _, drv := setup(t)

	drv.Type("not-an-email")
	drv.Key("enter")
	drv.Type("secret")
	drv.Key("enter")

	s := drv.Active().(*SignInScreen)
	if s.errMsg != "That doesn't look like an email address." {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestSignInSwitchesToSignUp(t *testing.T) {
	_, _, _, drv := setup(t)

	drv.Key("ctrl+n")

	if _, ok := drv.Active().(*signup.SignUpScreen); !ok {
		t.Fatalf("expected sign-up screen, got %T", drv.Active())
	}
	if drv.Router.Depth() != 2 {
		t.Errorf("sign up should replace the form, depth = %d", drv.Router.Depth())
	}
}
