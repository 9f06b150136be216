package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// defaultModels is the model used when none is configured.
var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGemini:     "gemini-flash",
	ProviderOpenRouter: "google/gemini-2.0-flash-exp",
	ProviderMock:       "mock",
}

// keyEnv lists the API key variables per provider, most specific first.
var keyEnv = map[string][]string{
	ProviderAnthropic:  {"QUIZZIE_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
	ProviderOpenAI:     {"QUIZZIE_OPENAI_API_KEY", "OPENAI_API_KEY"},
	ProviderGemini:     {"QUIZZIE_GEMINI_API_KEY", "GEMINI_API_KEY"},
	ProviderOpenRouter: {"QUIZZIE_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"},
}

// discoveryOrder is the order providers are probed when none is chosen.
var discoveryOrder = []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter}

// Config selects one provider and how to reach it.
type Config struct {
	Provider string
	Model    string
	APIKey   string

	// BaseURL overrides the endpoint for OpenAI-compatible providers.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// RetryConfig is exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetry returns the standard backoff.
func DefaultRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2,
	}
}

// Resolve builds a Config for provider and model, reading the API key
// and base URL from the environment. An empty provider means discover one
// from whichever API key is set; ok is false if none is.
func Resolve(provider, model string) (cfg Config, ok bool) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		for _, p := range discoveryOrder {
			if lookupKey(p) != "" {
				provider = p
				break
			}
		}
		if provider == "" {
			return Config{}, false
		}
	}

	cfg = Config{
		Provider: provider,
		Model:    model,
		APIKey:   lookupKey(provider),
		BaseURL:  os.Getenv("QUIZZIE_" + strings.ToUpper(provider) + "_BASE_URL"),
		Retry:    DefaultRetry(),
		Timeout:  60 * time.Second,
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[provider]
	}
	return cfg, true
}

func lookupKey(provider string) string {
	for _, name := range keyEnv[provider] {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks the provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	names, ok := keyEnv[c.Provider]
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s is required for the %s provider", names[0], c.Provider)
	}
	return nil
}
