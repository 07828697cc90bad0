package llm

import "time"

// Provider names accepted in Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "mock"
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	OpenRouter OpenRouterConfig

	// Timeout bounds a single outbound call. Default: 30s.
	Timeout time.Duration

	// MaxAttempts is the number of sequential tries Attempter makes
	// before giving up. Default: 2.
	MaxAttempts int
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-2.5-flash"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// DefaultMaxAttempts is used when Config.MaxAttempts is unset.
const DefaultMaxAttempts = 2

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGemini,
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenRouter: OpenRouterConfig{
			Model:   "google/gemini-2.5-flash",
			BaseURL: "https://openrouter.ai/api/v1",
		},
		Timeout:     30 * time.Second,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return &ErrConfig{Key: "GOOGLE_API_KEY", Reason: "is required for the gemini provider"}
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return &ErrConfig{Key: "OPENAI_API_KEY", Reason: "is required for the openai provider"}
		}
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return &ErrConfig{Key: "ANTHROPIC_API_KEY", Reason: "is required for the anthropic provider"}
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return &ErrConfig{Key: "OPENROUTER_API_KEY", Reason: "is required for the openrouter provider"}
		}
	case ProviderMock:
		// No API key needed.
	default:
		return &ErrConfig{Key: "LLM_PROVIDER", Reason: "has unknown value " + c.Provider}
	}
	if c.MaxAttempts < 0 {
		return &ErrConfig{Key: "LLM_MAX_ATTEMPTS", Reason: "must not be negative"}
	}
	return nil
}
