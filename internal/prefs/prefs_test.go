package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizziebot/quizzie/internal/store"
)

func TestDefaultsWithoutStore(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, Default(), s.Get())
	assert.Equal(t, "en", s.Language())
}

func TestSettingsPersist(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	s := New(st.KV())
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.SetMusic(ctx, false))
	require.NoError(t, s.SetSoundEffects(ctx, false))
	require.NoError(t, s.SetLanguage(ctx, "vi"))

	again := New(st.KV())
	require.NoError(t, again.Load(ctx))
	assert.Equal(t, Prefs{Music: false, SoundEffects: false, Language: "vi"}, again.Get())
}

func TestSetLanguageRejectsUnknown(t *testing.T) {
	s := New(nil)
	err := s.SetLanguage(context.Background(), "fr")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Equal(t, "en", s.Language())
}

func TestDefaultLanguageOption(t *testing.T) {
	assert.Equal(t, "vi", New(nil, WithDefaultLanguage("vi")).Language())
	assert.Equal(t, "en", New(nil, WithDefaultLanguage("fr")).Language())
}

func TestResetRestoresDefaults(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	s := New(st.KV())
	require.NoError(t, s.SetMusic(ctx, false))
	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, Default(), s.Get())

	again := New(st.KV())
	require.NoError(t, again.Load(ctx))
	assert.Equal(t, Default(), again.Get())
}
