// Package grading checks learner answers against stored problems and
// attaches AI-written feedback.
package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/p5math/internal/llm"
	"github.com/abhisek/p5math/internal/store"
)

// Purpose labels feedback calls in LLM events and metrics.
const Purpose = "feedback"

// Config controls the behavior of the Grader.
type Config struct {
	// MaxTokens is the token budget for the feedback. Zero uses the
	// provider default, which leaves room for thinking tokens.
	MaxTokens int

	Temperature float64

	// MaxAttempts overrides the Attempter default when positive.
	MaxAttempts int
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		Temperature: 0.7,
		MaxAttempts: llm.DefaultMaxAttempts,
	}
}

// SubmitInput is a learner's answer to a stored problem. UserAnswer is the
// raw JSON value so that strings and numbers are both accepted.
type SubmitInput struct {
	SessionID  string
	UserAnswer json.RawMessage
}

// Result is the outcome of a submission.
type Result struct {
	Submission *store.Submission
	Feedback   string
	IsCorrect  bool

	// FallbackUsed is set when the feedback is the fixed fallback text.
	FallbackUsed bool
}

// Grader grades submissions and persists them.
type Grader struct {
	attempter   *llm.Attempter
	sessions    store.SessionRepo
	submissions store.SubmissionRepo
	config      Config
}

// New creates a Grader.
func New(attempter *llm.Attempter, sessions store.SessionRepo, submissions store.SubmissionRepo, cfg Config) *Grader {
	return &Grader{
		attempter:   attempter,
		sessions:    sessions,
		submissions: submissions,
		config:      cfg,
	}
}

// Submit grades in and persists a Submission. Feedback never blocks on the
// model: when every attempt fails a fixed text for the verdict is used.
func (g *Grader) Submit(ctx context.Context, in SubmitInput) (*Result, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}
	answer, err := ParseAnswer(in.UserAnswer)
	if err != nil {
		return nil, err
	}

	session, err := g.sessions.Get(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	isCorrect := IsCorrect(answer, session.CorrectAnswer)

	feedback, fallback := g.feedback(ctx, session, answer, isCorrect)

	sub := &store.Submission{
		SessionID:    session.ID,
		UserAnswer:   answer.Value,
		IsCorrect:    isCorrect,
		FeedbackText: feedback,
	}
	if err := g.submissions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}

	log.Info().
		Str("session_id", session.ID).
		Str("submission_id", sub.ID).
		Bool("is_correct", isCorrect).
		Bool("fallback_feedback", fallback).
		Msg("submission graded")

	return &Result{
		Submission:   sub,
		Feedback:     feedback,
		IsCorrect:    isCorrect,
		FallbackUsed: fallback,
	}, nil
}

// feedback asks the model for feedback and falls back to a fixed text when
// every attempt fails.
func (g *Grader) feedback(ctx context.Context, session *store.Session, answer Answer, isCorrect bool) (string, bool) {
	prompt, err := buildFeedbackMessage(feedbackData{
		ProblemText:   session.ProblemText,
		CorrectAnswer: formatNumber(session.CorrectAnswer),
		UserAnswer:    formatNumber(answer.Value),
		IsCorrect:     isCorrect,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to build feedback prompt")
		return fallbackFeedback(isCorrect), true
	}

	res, err := g.attempter.Generate(llm.WithPurpose(ctx, Purpose), llm.AttemptRequest{
		System:          feedbackSystemPrompt,
		Prompt:          prompt,
		Mode:            llm.ModeFreeText,
		ReasoningEffort: llm.ReasoningHigh,
		MaxTokens:       g.config.MaxTokens,
		Temperature:     g.config.Temperature,
		MaxAttempts:     g.config.MaxAttempts,
	})
	if err != nil {
		log.Warn().Err(err).Str("session_id", session.ID).Msg("feedback generation failed, using fallback")
		return fallbackFeedback(isCorrect), true
	}
	return res.Text, false
}
