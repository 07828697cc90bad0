package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/p5math/internal/metrics"
	"github.com/abhisek/p5math/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event,
// logs it and updates the request metrics.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with event logging. A nil repo skips the
// event record but keeps the log line and metrics.
func WithLogging(p Provider, providerName string, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, provider: providerName, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latency := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		Attempt:   AttemptFrom(ctx),
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}

	outcome := "success"
	if err != nil {
		outcome = "error"
		data.ErrorMessage = err.Error()
	}
	metrics.LLMRequests.WithLabelValues(data.Model, purpose, outcome).Inc()
	metrics.LLMRequestDuration.WithLabelValues(data.Model, purpose).Observe(latency.Seconds())

	log.Debug().
		Str("provider", data.Provider).
		Str("model", data.Model).
		Str("purpose", purpose).
		Int("attempt", data.Attempt).
		Int64("latency_ms", data.LatencyMs).
		Int("input_tokens", data.InputTokens).
		Int("output_tokens", data.OutputTokens).
		Bool("success", data.Success).
		Msg("llm request")

	// Log the event but don't fail the request if logging fails.
	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
			log.Warn().Err(logErr).Msg("failed to record LLM request event")
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
