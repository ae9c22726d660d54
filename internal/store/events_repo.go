package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// eventRepo implements EventRepo over raw SQL and the shared sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO llm_request_events
			(sequence, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		boolToInt(data.Success), data.ErrorMessage)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendGeneration(ctx context.Context, data GenerationEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO generation_events
			(sequence, assessment_id, level, elapsed_seconds, query_count, module_count,
			 structured_uri, readable_uri, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.AssessmentID, data.Level, data.ElapsedSeconds,
		data.QueryCount, data.ModuleCount, data.StructuredURI, data.ReadableURI,
		boolToInt(data.Success), data.ErrorMessage)
	if err != nil {
		return fmt.Errorf("save generation event: %w", err)
	}
	return nil
}

func (r *eventRepo) GenerationStats(ctx context.Context) ([]LevelStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT level, COUNT(*), SUM(success), AVG(elapsed_seconds)
		 FROM generation_events GROUP BY level ORDER BY level`)
	if err != nil {
		return nil, fmt.Errorf("query generation stats: %w", err)
	}
	defer rows.Close()

	var stats []LevelStats
	for rows.Next() {
		var s LevelStats
		var avg sql.NullFloat64
		if err := rows.Scan(&s.Level, &s.Runs, &s.Successes, &avg); err != nil {
			return nil, fmt.Errorf("scan generation stats: %w", err)
		}
		s.AvgElapsed = avg.Float64
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *eventRepo) LLMUsage(ctx context.Context) (UsageStats, error) {
	var u UsageStats
	var since sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(input_tokens), 0),
			COALESCE(SUM(output_tokens), 0),
			COALESCE(SUM(1 - success), 0),
			MIN(timestamp)
		 FROM llm_request_events`).
		Scan(&u.Requests, &u.InputTokens, &u.OutputTokens, &u.Failures, &since)
	if err != nil {
		return UsageStats{}, fmt.Errorf("query LLM usage: %w", err)
	}
	if since.Valid {
		if t, perr := time.Parse(time.RFC3339Nano, since.String); perr == nil {
			u.Since = t
		}
	}
	return u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
