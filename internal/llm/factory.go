package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizziebot/quizzie/internal/store"
)

// NewProvider builds the configured provider and wraps it:
// caller → timeout → retry → logging → provider.
// events and logger may be nil.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.APIKey, cfg.Model)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, cfg.Provider, events, logger)
	if cfg.Retry.MaxAttempts > 0 {
		p = WithRetry(p, cfg.Retry)
	}
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}
