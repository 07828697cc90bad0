package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var problemFields = Fields{
	Required: []string{"problem_text", "correct_answer"},
	Numeric:  []string{"correct_answer"},
}

func TestAttempter_StructuredFirstTry(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Text: "Here you go:\n```json\n{\"problem_text\": \"What is 6 x 7?\", \"correct_answer\": 42}\n```",
	})
	a := NewAttempter(mock, 2)

	res, err := a.Generate(context.Background(), AttemptRequest{
		Prompt: "p",
		Mode:   ModeStructured,
		Fields: problemFields,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, "What is 6 x 7?", res.Fields["problem_text"])
	assert.Equal(t, 42.0, res.Numbers["correct_answer"])
	assert.Equal(t, 1, mock.CallCount())
}

func TestAttempter_RetriesAfterProviderError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Text: `{"problem_text":"x","correct_answer":"12.5"}`},
	)
	a := NewAttempter(mock, 2)

	res, err := a.Generate(context.Background(), AttemptRequest{Mode: ModeStructured, Fields: problemFields})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 12.5, res.Numbers["correct_answer"])
	assert.Equal(t, 2, mock.CallCount())
}

func TestAttempter_ExhaustedAfterBadJSON(t *testing.T) {
	mock := NewMockProvider().Always(MockResponse{Text: "Sorry, I cannot help with that."})
	a := NewAttempter(mock, 2)

	res, err := a.Generate(context.Background(), AttemptRequest{Mode: ModeStructured, Fields: problemFields})
	require.Nil(t, res)

	var exhausted *ErrExhausted
	require.True(t, errors.As(err, &exhausted), "got %T", err)
	assert.Equal(t, 2, exhausted.Attempts)
	assert.True(t, IsExtraction(err))
	assert.Equal(t, 2, mock.CallCount())
}

func TestAttempter_ExhaustedReportsLastFailure(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "no json here"},
		MockResponse{Text: `{"problem_text":"x","correct_answer":"twelve"}`},
	)
	a := NewAttempter(mock, 2)

	_, err := a.Generate(context.Background(), AttemptRequest{Mode: ModeStructured, Fields: problemFields})

	var v *ErrValidation
	require.True(t, errors.As(err, &v), "got %v", err)
	assert.Equal(t, []string{"correct_answer"}, v.NotNumeric)
	assert.False(t, IsExtraction(err))
}

func TestAttempter_MissingFieldRetried(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: `{"problem_text":"x"}`},
		MockResponse{Text: `{"problem_text":"x","correct_answer":null}`},
		MockResponse{Text: `{"problem_text":"x","correct_answer":3}`},
	)
	a := NewAttempter(mock, 3)

	res, err := a.Generate(context.Background(), AttemptRequest{Mode: ModeStructured, Fields: problemFields})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, mock.CallCount())
}

func TestAttempter_FreeTextTrims(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "\n  Well done! You got it.  \n"})
	a := NewAttempter(mock, 2)

	res, err := a.Generate(context.Background(), AttemptRequest{Mode: ModeFreeText, ReasoningEffort: ReasoningHigh})
	require.NoError(t, err)
	assert.Equal(t, "Well done! You got it.", res.Text)
	assert.Nil(t, res.Fields)
	assert.Equal(t, ReasoningHigh, mock.LastCall().ReasoningEffort)
}

func TestAttempter_WhitespaceIsNoOutput(t *testing.T) {
	mock := NewMockProvider().Always(MockResponse{Text: "   \n\t"})
	a := NewAttempter(mock, 2)

	_, err := a.Generate(context.Background(), AttemptRequest{Mode: ModeFreeText})

	var empty *ErrEmptyOutput
	require.True(t, errors.As(err, &empty), "got %v", err)
	assert.Equal(t, 2, mock.CallCount())
}

func TestAttempter_RequestOverridesMaxAttempts(t *testing.T) {
	mock := NewMockProvider().Always(MockResponse{Err: &ErrRateLimit{}})
	a := NewAttempter(mock, 2)

	_, err := a.Generate(context.Background(), AttemptRequest{MaxAttempts: 4})
	var exhausted *ErrExhausted
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 4, exhausted.Attempts)
	assert.Equal(t, 4, mock.CallCount())
}

func TestAttempter_DefaultMaxAttempts(t *testing.T) {
	mock := NewMockProvider()
	a := NewAttempter(mock, 0)

	_, err := a.Generate(context.Background(), AttemptRequest{})
	require.Error(t, err)
	assert.Equal(t, DefaultMaxAttempts, mock.CallCount())
}

func TestAttempter_CancelledContextStops(t *testing.T) {
	mock := NewMockProvider().Always(MockResponse{Text: "hi"})
	a := NewAttempter(mock, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Generate(ctx, AttemptRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, mock.CallCount())
}

// cancellingProvider cancels the caller's context during the call.
type cancellingProvider struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	c.calls++
	c.cancel()
	return nil, &ErrProviderUnavailable{Err: ctx.Err()}
}

func (c *cancellingProvider) ModelID() string { return "cancel" }

func TestAttempter_CancelMidLoopIsNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &cancellingProvider{cancel: cancel}
	a := NewAttempter(p, 3)

	_, err := a.Generate(ctx, AttemptRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	var exhausted *ErrExhausted
	assert.False(t, errors.As(err, &exhausted))
	assert.Equal(t, 1, p.calls)
}

func TestAttempter_PassesAttemptNumber(t *testing.T) {
	var seen []int
	p := &recordingProvider{fn: func(ctx context.Context) (*Response, error) {
		seen = append(seen, AttemptFrom(ctx))
		if len(seen) < 2 {
			return &Response{Text: ""}, nil
		}
		return &Response{Text: "ok"}, nil
	}}
	a := NewAttempter(p, 2)

	_, err := a.Generate(context.Background(), AttemptRequest{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, seen)
}

type recordingProvider struct {
	fn func(ctx context.Context) (*Response, error)
}

func (r *recordingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	return r.fn(ctx)
}

func (r *recordingProvider) ModelID() string { return "recording" }

func TestAttemptLoopTransitions(t *testing.T) {
	l := newAttemptLoop(2)
	assert.Equal(t, stateAttempting, l.state)
	assert.Equal(t, 1, l.attempt)

	l.fail(errors.New("first"))
	assert.Equal(t, stateAttempting, l.state)
	assert.Equal(t, 2, l.attempt)

	l.fail(errors.New("second"))
	assert.Equal(t, stateExhausted, l.state)
	assert.EqualError(t, l.last, "second")

	l = newAttemptLoop(2)
	l.succeed()
	assert.Equal(t, stateSucceeded, l.state)
}
