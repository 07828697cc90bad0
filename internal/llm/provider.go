package llm

import "context"

// Provider is the core abstraction for a single text completion.
// Implementations make exactly one outbound call per Generate and never retry;
// retrying is the job of Attempter.
type Provider interface {
	// Generate sends the prompt to the model and returns its raw text.
	// It fails with *ErrProviderUnavailable or *ErrRateLimit when the
	// service could not be reached, and *ErrEmptyOutput when the service
	// answered without any text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// ReasoningEffort trades latency for output quality on models that support
// internal deliberation.
type ReasoningEffort string

const (
	// ReasoningLow favors fast, short responses. Used for structured generation.
	ReasoningLow ReasoningEffort = "low"

	// ReasoningHigh lets the model deliberate before answering. Used for
	// free-text feedback where quality matters more than latency.
	ReasoningHigh ReasoningEffort = "high"
)

// Request describes what to send to the model.
type Request struct {
	// System is an optional system instruction.
	System string

	// Prompt is the single user turn.
	Prompt string

	// ReasoningEffort is a hint; providers without reasoning support ignore it.
	// Empty means ReasoningLow.
	ReasoningEffort ReasoningEffort

	// MaxTokens caps the response length. Zero leaves it to the provider.
	MaxTokens int

	// Temperature controls randomness. Zero leaves it to the provider.
	Temperature float64
}

// Response holds the model's output.
type Response struct {
	// Text is the raw generated text, untrimmed.
	Text string

	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
