package llm

import (
	"context"
	"fmt"

	"github.com/IanScripts/Learnbot-AiTutor/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with the
// timeout and event-logging middleware. There is no automatic retry
// layer: the only bounded regeneration loop in this service lives in the
// quiz generator.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.Repository) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller, timeout, logging, base.
	logged := WithEventLogging(base, eventRepo)
	return WithTimeout(logged, cfg.Timeout), nil
}

// NewProviderFromEnv builds a Provider from LEARNBOT_* env vars, falling
// back to probing the standard provider API key vars.
func NewProviderFromEnv(ctx context.Context, eventRepo store.Repository) (Provider, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, err
		}
		discovered.Timeout = cfg.Timeout
		cfg = discovered
	}
	return NewProvider(ctx, cfg, eventRepo)
}
