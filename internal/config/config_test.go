package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, DefaultQuestionTicks, cfg.QuestionTicks())
	assert.Equal(t, DefaultLockDelay, cfg.LockDelay())
	assert.Equal(t, DefaultOutcomeDelay, cfg.OutcomeDelay())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
api:
  url: https://quiz.example.com
  timeout: 5s
quiz:
  question_ticks: 20
  lock_delay: 500ms
cache:
  ttl: 1m
  redis:
    addr: localhost:6379
    db: 2
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://quiz.example.com", cfg.API.URL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout())
	assert.Equal(t, 20, cfg.QuestionTicks())
	assert.Equal(t, 500*time.Millisecond, cfg.LockDelay())
	assert.Equal(t, DefaultOutcomeDelay, cfg.OutcomeDelay())
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("QUIZZIE_API_URL", "http://10.0.2.2:3000")
	t.Setenv("QUIZZIE_REDIS_DB", "3")
	t.Setenv("QUIZZIE_LANGUAGE", "vi")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "http://10.0.2.2:3000", cfg.API.URL)
	assert.Equal(t, 3, cfg.Cache.Redis.DB)
	assert.Equal(t, "vi", cfg.API.Language)
}

func TestDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", time.Second},
		{"garbage", time.Second},
		{"-5s", time.Second},
		{"250ms", 250 * time.Millisecond},
		{"0s", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.raw, time.Second), "raw=%q", tt.raw)
	}
}

func TestDefaultPathPrefersEnv(t *testing.T) {
	t.Setenv("QUIZZIE_CONFIG", "/tmp/custom.yaml")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", p)
}
