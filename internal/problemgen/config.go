package problemgen

import "github.com/abhisek/p5math/internal/llm"

// Config controls the behavior of the Generator.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxAttempts overrides the Attempter default when positive.
	MaxAttempts int

	// MaxPriorProblems is the maximum number of recent problems
	// to include in the prompt for deduplication. Zero disables the lookup.
	MaxPriorProblems int
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:        1024,
		Temperature:      0.7,
		MaxAttempts:      llm.DefaultMaxAttempts,
		MaxPriorProblems: 5,
	}
}
