package llm

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/p5math/internal/metrics"
)

// Mode selects how Attempter interprets model output.
type Mode int

const (
	// ModeFreeText returns the trimmed text as-is.
	ModeFreeText Mode = iota

	// ModeStructured extracts and validates an embedded JSON object.
	ModeStructured
)

func (m Mode) String() string {
	if m == ModeStructured {
		return "structured"
	}
	return "free-text"
}

// AttemptRequest is one logical generation, possibly spanning several calls.
type AttemptRequest struct {
	Prompt          string
	System          string
	Mode            Mode
	Fields          Fields
	ReasoningEffort ReasoningEffort
	MaxTokens       int
	Temperature     float64

	// MaxAttempts overrides the Attempter default when positive.
	MaxAttempts int
}

// Result is the outcome of a successful attempt.
type Result struct {
	// Text is the trimmed model output.
	Text string

	// Fields is the decoded object. Nil in free-text mode.
	Fields map[string]any

	// Numbers holds the coerced values of Fields.Numeric.
	Numbers map[string]float64

	// Attempts is the 1-based number of the attempt that succeeded.
	Attempts int
}

// Attempter runs a bounded, sequential retry loop over a Provider.
// Attempts are not spaced out; a failed attempt is followed immediately
// by the next one.
type Attempter struct {
	provider    Provider
	maxAttempts int
}

// NewAttempter creates an Attempter. A non-positive maxAttempts falls back
// to DefaultMaxAttempts.
func NewAttempter(p Provider, maxAttempts int) *Attempter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Attempter{provider: p, maxAttempts: maxAttempts}
}

// attemptState is the state of one run of the retry loop.
type attemptState int

const (
	stateAttempting attemptState = iota
	stateSucceeded
	stateExhausted
)

// attemptLoop tracks Attempting(n) -> Success | Attempting(n+1) | Exhausted.
type attemptLoop struct {
	state   attemptState
	attempt int
	max     int
	last    error
}

func newAttemptLoop(limit int) *attemptLoop {
	return &attemptLoop{state: stateAttempting, attempt: 1, max: limit}
}

func (l *attemptLoop) succeed() {
	l.state = stateSucceeded
}

func (l *attemptLoop) fail(err error) {
	l.last = err
	if l.attempt >= l.max {
		l.state = stateExhausted
		return
	}
	l.attempt++
}

// Generate runs the retry loop until an attempt succeeds or all attempts
// fail. On exhaustion it returns *ErrExhausted wrapping the last failure and
// no partial result. A cancelled ctx ends the loop with ctx.Err().
func (a *Attempter) Generate(ctx context.Context, req AttemptRequest) (*Result, error) {
	limit := a.maxAttempts
	if req.MaxAttempts > 0 {
		limit = req.MaxAttempts
	}
	purpose := PurposeFrom(ctx)

	loop := newAttemptLoop(limit)
	for loop.state == stateAttempting {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := a.try(withAttempt(ctx, loop.attempt), req)
		if err == nil {
			loop.succeed()
			res.Attempts = loop.attempt
			metrics.LLMAttempts.WithLabelValues(purpose, "success").Inc()
			return res, nil
		}

		// The caller went away; the failure is not the model's.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		log.Warn().
			Err(err).
			Str("purpose", purpose).
			Str("mode", req.Mode.String()).
			Int("attempt", loop.attempt).
			Int("max_attempts", limit).
			Msg("llm attempt failed")

		loop.fail(err)
		if loop.state == stateAttempting {
			metrics.LLMAttempts.WithLabelValues(purpose, "retry").Inc()
		}
	}

	metrics.LLMAttempts.WithLabelValues(purpose, "exhausted").Inc()
	return nil, &ErrExhausted{Attempts: limit, Last: loop.last}
}

// try performs a single attempt: one provider call plus, in structured mode,
// extraction and validation.
func (a *Attempter) try(ctx context.Context, req AttemptRequest) (*Result, error) {
	resp, err := a.provider.Generate(ctx, Request{
		System:          req.System,
		Prompt:          req.Prompt,
		ReasoningEffort: req.ReasoningEffort,
		MaxTokens:       req.MaxTokens,
		Temperature:     req.Temperature,
	})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, &ErrEmptyOutput{Model: resp.Model}
	}

	if req.Mode == ModeFreeText {
		return &Result{Text: text}, nil
	}

	obj, err := ParseObject(text)
	if err != nil {
		return nil, err
	}

	numbers, err := Validate(obj, req.Fields)
	if err != nil {
		return nil, err
	}

	return &Result{Text: text, Fields: obj, Numbers: numbers}, nil
}
