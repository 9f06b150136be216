package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quizzie.log")

	logger, closer, err := Open(path, slog.LevelInfo)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("session started", "session", "abc")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, "session started"))
	assert.True(t, strings.Contains(out, "session=abc"))
	assert.False(t, strings.Contains(out, "hidden"))
}

func TestOpenEmptyPathDiscards(t *testing.T) {
	logger, closer, err := Open("", slog.LevelDebug)
	require.NoError(t, err)
	logger.Info("nowhere")
	assert.NoError(t, closer.Close())
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/data", "quizzie", "quizzie.log"),
		DefaultPath(filepath.Join("/data", "quizzie", "quizzie.db")))
}
