// Package settings edits sound, music and language preferences.
package settings

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/prefs"
	"github.com/quizziebot/quizzie/internal/router"
	"github.com/quizziebot/quizzie/internal/screen"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/ui/components"
	"github.com/quizziebot/quizzie/internal/ui/layout"
	"github.com/quizziebot/quizzie/internal/ui/theme"
)

const (
	rowMusic = iota
	rowSound
	rowLanguage
	rowSignOut
)

var languageNames = map[string]string{
	"en": "English",
	"vi": "Tiếng Việt",
}

type savedMsg struct{ Err error }

type signedOutMsg struct{ Err error }

// SettingsScreen toggles preferences. Every change is saved immediately.
type SettingsScreen struct {
	deps     *deps.Deps
	selected int
	errMsg   string
}

var (
	_ screen.Screen          = (*SettingsScreen)(nil)
	_ screen.KeyHintProvider = (*SettingsScreen)(nil)
)

func New(d *deps.Deps) *SettingsScreen {
	return &SettingsScreen{deps: d}
}

func (s *SettingsScreen) Init() tea.Cmd { return nil }

func (s *SettingsScreen) Title() string { return "Settings" }

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter/Space", Description: "Change"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SettingsScreen) rows() int {
	if _, ok := s.deps.Auth.CurrentUserID(); ok {
		return rowSignOut + 1
	}
	return rowSignOut
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.Err != nil {
			s.deps.Log().Warn("save settings", "err", msg.Err)
			s.errMsg = "Couldn't save settings: " + msg.Err.Error()
		}
		return s, nil

	case signedOutMsg:
		if msg.Err != nil {
			s.errMsg = deps.ErrorText("Sign out failed", msg.Err)
			return s, nil
		}
		return s, router.PopToRoot

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < s.rows()-1 {
				s.selected++
			}
		case "enter", "space", "left", "right":
			return s, s.change()
		}
	}
	return s, nil
}

// change applies the selected row. Preferences are updated in memory
// before the save command runs, so the view reflects the change at once.
func (s *SettingsScreen) change() tea.Cmd {
	p := s.deps.Prefs
	ctx := s.deps.Context()
	cur := p.Get()
	s.errMsg = ""

	var save func() error
	switch s.selected {
	case rowMusic:
		save = func() error { return p.SetMusic(ctx, !cur.Music) }
	case rowSound:
		save = func() error { return p.SetSoundEffects(ctx, !cur.SoundEffects) }
	case rowLanguage:
		next := nextLanguage(cur.Language)
		save = func() error { return p.SetLanguage(ctx, next) }
	case rowSignOut:
		a := s.deps.Auth
		return func() tea.Msg { return signedOutMsg{Err: a.SignOut(ctx)} }
	default:
		return nil
	}
	err := save()
	return func() tea.Msg { return savedMsg{Err: err} }
}

func nextLanguage(cur string) string {
	i := slices.Index(prefs.Languages, cur)
	return prefs.Languages[(i+1)%len(prefs.Languages)]
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func (s *SettingsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	p := s.deps.Prefs.Get()

	labels := []string{
		fmt.Sprintf("%-14s %s", "Music", onOff(p.Music)),
		fmt.Sprintf("%-14s %s", "Sound effects", onOff(p.SoundEffects)),
		fmt.Sprintf("%-14s %s", "Language", languageNames[p.Language]),
	}
	if s.rows() > rowSignOut {
		labels = append(labels, "Sign out")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("SETTINGS"))
	b.WriteString("\n\n")
	for i, l := range labels {
		b.WriteString(components.ArcadeButton(l, i == s.selected, cw-4))
		b.WriteString("\n")
	}
	if s.errMsg != "" {
		b.WriteString("\n" + theme.Alert.Render(s.errMsg))
	}
	return components.CabinetFrame(lipgloss.PlaceHorizontal(cw, lipgloss.Center, b.String()), width, height)
}
