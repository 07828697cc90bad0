package llm

import (
	"fmt"
	"strings"
	"time"
)

// ErrConfig indicates the process configuration is unusable, typically a
// missing API credential. It is fatal at startup.
type ErrConfig struct {
	Key    string
	Reason string
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("config: %s %s", e.Key, e.Reason)
}

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, unreachable, or
// rejected the request (network, auth or service failure).
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrEmptyOutput indicates the provider answered but produced no text.
type ErrEmptyOutput struct {
	Model string
}

func (e *ErrEmptyOutput) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("empty response from %s", e.Model)
	}
	return "empty response from LLM"
}

// ErrExtraction indicates no JSON object could be located in, or parsed from,
// the model output.
type ErrExtraction struct {
	Text string
	Err  error
}

func (e *ErrExtraction) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no valid JSON object in response: %v", e.Err)
	}
	return "no JSON object in response"
}

func (e *ErrExtraction) Unwrap() error { return e.Err }

// ErrValidation indicates the extracted object is structurally unusable.
type ErrValidation struct {
	// Missing lists required fields that are absent or null.
	Missing []string

	// NotNumeric lists numeric fields whose value is not a finite number.
	NotNumeric []string

	// Err carries a schema validation failure, if any.
	Err error
}

func (e *ErrValidation) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required keys: "+strings.Join(e.Missing, ", "))
	}
	if len(e.NotNumeric) > 0 {
		parts = append(parts, "not numeric: "+strings.Join(e.NotNumeric, ", "))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return "invalid LLM response"
	}
	return "invalid LLM response: " + strings.Join(parts, "; ")
}

func (e *ErrValidation) Unwrap() error { return e.Err }

// ErrExhausted is returned by Attempter once every attempt failed.
// Last is the failure of the final attempt; no partial result is kept.
type ErrExhausted struct {
	Attempts int
	Last     error
}

func (e *ErrExhausted) Error() string {
	return fmt.Sprintf("LLM failed to produce a valid response after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ErrExhausted) Unwrap() error { return e.Last }
