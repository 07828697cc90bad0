package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// eventRepo implements EventRepo backed by gorm.
type eventRepo struct {
	db *gorm.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	ev := LLMRequestEvent{
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		Attempt:      data.Attempt,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		ErrorMessage: data.ErrorMessage,
	}
	if err := r.db.WithContext(ctx).Create(&ev).Error; err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEvent, error) {
	q := r.db.WithContext(ctx).Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var events []LLMRequestEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, &Error{Op: "list LLM request events", Err: err}
	}
	return events, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.usageBy(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.usageBy(ctx, "model")
}

// usageBy groups events on column, which must be a trusted column name.
func (r *eventRepo) usageBy(ctx context.Context, column string) ([]LLMUsage, error) {
	var rows []struct {
		GroupKey     string
		Calls        int
		InputTokens  int
		OutputTokens int
		AvgLatency   float64
	}

	err := r.db.WithContext(ctx).
		Model(&LLMRequestEvent{}).
		Select(column + " AS group_key, COUNT(*) AS calls, " +
			"COALESCE(SUM(input_tokens), 0) AS input_tokens, " +
			"COALESCE(SUM(output_tokens), 0) AS output_tokens, " +
			"COALESCE(AVG(latency_ms), 0) AS avg_latency").
		Group(column).
		Order("calls desc").
		Scan(&rows).Error
	if err != nil {
		return nil, &Error{Op: "aggregate LLM usage by " + column, Err: err}
	}

	out := make([]LLMUsage, len(rows))
	for i, row := range rows {
		out[i] = LLMUsage{
			Key:          row.GroupKey,
			Calls:        row.Calls,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			AvgLatencyMs: int64(row.AvgLatency),
		}
	}
	return out, nil
}
