package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL        = "http://localhost:3000"
	DefaultAPITimeout    = 15 * time.Second
	DefaultQuestionTicks = 10
	DefaultLockDelay     = 1200 * time.Millisecond
	DefaultOutcomeDelay  = 3 * time.Second
	DefaultCacheTTL      = 2 * time.Minute
)

// Config is the on-disk configuration for quizzie.
type Config struct {
	API struct {
		URL      string `yaml:"url"`
		Timeout  string `yaml:"timeout"`
		Language string `yaml:"language"`
	} `yaml:"api"`
	Quiz struct {
		QuestionTicks int    `yaml:"question_ticks"`
		LockDelay     string `yaml:"lock_delay"`
		OutcomeDelay  string `yaml:"outcome_delay"`
	} `yaml:"quiz"`
	Cache struct {
		TTL   string `yaml:"ttl"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
	Store struct {
		DB string `yaml:"db"`
	} `yaml:"store"`
	LLM struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
	} `yaml:"llm"`
}

// Default returns a Config populated with built-in defaults.
func Default() Config {
	var cfg Config
	cfg.API.URL = DefaultAPIURL
	cfg.API.Timeout = DefaultAPITimeout.String()
	cfg.API.Language = "en"
	cfg.Quiz.QuestionTicks = DefaultQuestionTicks
	cfg.Quiz.LockDelay = DefaultLockDelay.String()
	cfg.Quiz.OutcomeDelay = DefaultOutcomeDelay.String()
	cfg.Cache.TTL = DefaultCacheTTL.String()
	cfg.Log.Level = "info"
	return cfg
}

// Load reads YAML config from path on top of the defaults. A missing file
// is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides config values from QUIZZIE_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("QUIZZIE_API_URL"); v != "" {
		c.API.URL = v
	}
	if v := os.Getenv("QUIZZIE_API_TIMEOUT"); v != "" {
		c.API.Timeout = v
	}
	if v := os.Getenv("QUIZZIE_LANGUAGE"); v != "" {
		c.API.Language = v
	}
	if v := os.Getenv("QUIZZIE_DB"); v != "" {
		c.Store.DB = v
	}
	if v := os.Getenv("QUIZZIE_REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("QUIZZIE_REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("QUIZZIE_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.Redis.DB = n
		}
	}
	if v := os.Getenv("QUIZZIE_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("QUIZZIE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("QUIZZIE_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("QUIZZIE_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
}

// APITimeout returns the per-request HTTP timeout.
func (c Config) APITimeout() time.Duration {
	return Duration(c.API.Timeout, DefaultAPITimeout)
}

// LockDelay returns the pause between choosing an answer and the outcome screen.
func (c Config) LockDelay() time.Duration {
	return Duration(c.Quiz.LockDelay, DefaultLockDelay)
}

// OutcomeDelay returns how long an outcome screen stays up.
func (c Config) OutcomeDelay() time.Duration {
	return Duration(c.Quiz.OutcomeDelay, DefaultOutcomeDelay)
}

// QuestionTicks returns the per-question countdown length in seconds.
func (c Config) QuestionTicks() int {
	if c.Quiz.QuestionTicks <= 0 {
		return DefaultQuestionTicks
	}
	return c.Quiz.QuestionTicks
}

// CacheTTL returns the response cache lifetime.
func (c Config) CacheTTL() time.Duration {
	return Duration(c.Cache.TTL, DefaultCacheTTL)
}

// LogLevel maps the configured level name to a slog level.
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return d
	}
	return fallback
}

// DefaultPath resolves the config file path:
// 1. QUIZZIE_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/quizzie/config.yaml
// 3. ~/.config/quizzie/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("QUIZZIE_CONFIG"); p != "" {
		return p, nil
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "quizzie", "config.yaml"), nil
}
