package settings

import (
	"context"
	"testing"

	"github.com/quizziebot/quizzie/internal/api"
	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screens/screentest"
)

func TestSettingsToggles(t *testing.T) {
	d := screentest.NewDeps(t, screentest.NewBackend())
	drv := screentest.NewDriver(t, New(d), nil)

	drv.Key("enter")
	if d.Prefs.Get().Music {
		t.Error("music should be off")
	}
	drv.Key("down")
	drv.Key("space")
	if d.Prefs.Get().SoundEffects {
		t.Error("sound effects should be off")
	}
	drv.Key("down")
	drv.Key("enter")
	if got := d.Prefs.Language(); got != "vi" {
		t.Errorf("language = %q, want vi", got)
	}
	drv.Key("enter")
	if got := d.Prefs.Language(); got != "en" {
		t.Errorf("language = %q, want en", got)
	}
}

func TestSettingsSignOutOnlyWhenSignedIn(t *testing.T) {
	d := screentest.NewDeps(t, screentest.NewBackend())
	s := New(d)
	if s.rows() != rowSignOut {
		t.Fatalf("rows = %d for a guest", s.rows())
	}

	b := screentest.NewBackend()
	b.AddUser(api.User{ID: "u1", Email: "ada@example.com"}, "secret")
	d = screentest.NewDeps(t, b)
	if _, err := d.Auth.SignIn(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	root := &screentest.Root{}
	drv := screentest.NewDriver(t, root, nil)
	drv.Send(router.PushScreenMsg{Screen: New(d)})

	for range 3 {
		drv.Key("down")
	}
	drv.Key("enter")

	if drv.Active() != root {
		t.Fatalf("expected root, got %T", drv.Active())
	}
	if _, ok := d.Auth.Current(); ok {
		t.Error("user should be signed out")
	}
}

func TestNextLanguage(t *testing.T) {
	if nextLanguage("en") != "vi" || nextLanguage("vi") != "en" || nextLanguage("xx") != "en" {
		t.Error("languages should cycle")
	}
}
