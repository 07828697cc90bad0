package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/p5math/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with logging and timeout middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → logging → timeout → base.
	// Logging sits outside so timed-out calls are still recorded.
	timed := WithTimeout(base, cfg.Timeout)
	return WithLogging(timed, cfg.Provider, eventRepo), nil
}
