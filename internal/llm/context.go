package llm

import "context"

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	attemptKey contextKey = "llm_attempt"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

func withAttempt(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, attemptKey, n)
}

// AttemptFrom returns the 1-based attempt number set by Attempter, or 0 when
// the call was made outside of it.
func AttemptFrom(ctx context.Context) int {
	n, _ := ctx.Value(attemptKey).(int)
	return n
}
