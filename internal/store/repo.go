package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Error wraps a database failure with the operation that hit it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// SessionRepo manages generated problems.
type SessionRepo interface {
	// Create inserts s and fills in its ID and CreatedAt.
	Create(ctx context.Context, s *Session) error

	// Get returns the session with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// ListWithSubmissions returns sessions newest first, each with its
	// submissions newest first. A limit of 0 means no limit.
	ListWithSubmissions(ctx context.Context, limit int) ([]Session, error)

	// RecentProblems returns up to limit problem texts, newest first. An
	// empty subStrand matches every session.
	RecentProblems(ctx context.Context, subStrand string, limit int) ([]string, error)
}

// SubmissionRepo manages graded attempts.
type SubmissionRepo interface {
	// Create inserts sub and fills in its ID and CreatedAt.
	Create(ctx context.Context, sub *Submission) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	Attempt      int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append and read access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentLLMRequests returns up to limit events, newest first.
	RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates calls and tokens per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates calls and tokens per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

// LLMUsage is one row of aggregated LLM usage. Key is the purpose or model
// the row is grouped by.
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}
