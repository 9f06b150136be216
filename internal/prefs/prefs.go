// Package prefs persists the user's music, sound and language settings.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/quizziebot/quizzie/internal/store"
)

const prefsKey = "prefs"

// Languages the app can request from the backend.
var Languages = []string{"en", "vi"}

// ErrUnsupportedLanguage is returned by SetLanguage.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Prefs is the persisted settings document.
type Prefs struct {
	Music        bool   `json:"music"`
	SoundEffects bool   `json:"soundEffects"`
	Language     string `json:"language"`
}

// Default returns the first-run settings.
func Default() Prefs {
	return Prefs{Music: true, SoundEffects: true, Language: "en"}
}

// Service holds the current settings. It is safe for concurrent use.
type Service struct {
	kv       store.KVRepo
	defaults Prefs

	mu sync.RWMutex
	p  Prefs
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultLanguage sets the language used until the player picks one.
// Unsupported codes are ignored.
func WithDefaultLanguage(lang string) Option {
	return func(s *Service) {
		if slices.Contains(Languages, lang) {
			s.defaults.Language = lang
		}
	}
}

// New creates a service with default settings. kv may be nil.
func New(kv store.KVRepo, opts ...Option) *Service {
	s := &Service{kv: kv, defaults: Default()}
	for _, o := range opts {
		o(s)
	}
	s.p = s.defaults
	return s
}

// Load reads persisted settings, keeping defaults when none exist.
func (s *Service) Load(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}
	p := s.defaults
	err := s.kv.Get(ctx, prefsKey, &p)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}
	if !slices.Contains(Languages, p.Language) {
		p.Language = s.defaults.Language
	}
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
	return nil
}

// Get returns the current settings.
func (s *Service) Get() Prefs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p
}

// Language returns the selected language code.
func (s *Service) Language() string {
	return s.Get().Language
}

// SetMusic toggles background music.
func (s *Service) SetMusic(ctx context.Context, on bool) error {
	return s.update(ctx, func(p *Prefs) { p.Music = on })
}

// SetSoundEffects toggles button sounds.
func (s *Service) SetSoundEffects(ctx context.Context, on bool) error {
	return s.update(ctx, func(p *Prefs) { p.SoundEffects = on })
}

// SetLanguage selects one of Languages.
func (s *Service) SetLanguage(ctx context.Context, lang string) error {
	if !slices.Contains(Languages, lang) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	return s.update(ctx, func(p *Prefs) { p.Language = lang })
}

// Reset forgets persisted settings and returns to the defaults.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.p = s.defaults
	s.mu.Unlock()

	if s.kv == nil {
		return nil
	}
	if err := s.kv.Delete(ctx, prefsKey); err != nil {
		return fmt.Errorf("reset prefs: %w", err)
	}
	return nil
}

func (s *Service) update(ctx context.Context, fn func(*Prefs)) error {
	s.mu.Lock()
	next := s.p
	fn(&next)
	s.p = next
	s.mu.Unlock()

	if s.kv == nil {
		return nil
	}
	if err := s.kv.Put(ctx, prefsKey, next); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}
