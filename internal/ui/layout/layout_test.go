package layout

import (
	"strings"
	"testing"
)

func TestRenderHeaderShowsUser(t *testing.T) {
	h := RenderHeader("Home", "ada", 42, 100)
	for _, want := range []string{"Quizzie", "Home", "ada", "★ 42"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q:\n%s", want, h)
		}
	}
}

func TestRenderHeaderGuest(t *testing.T) {
	if h := RenderHeader("Home", "", 0, 100); !strings.Contains(h, "guest") {
		t.Errorf("expected guest header, got:\n%s", h)
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 30) || !IsTooSmall(100, 23) || IsTooSmall(80, 24) {
		t.Error("unexpected minimum size check")
	}
}
