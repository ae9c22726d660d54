package store

import (
	"context"
	"time"
)

// LLMRequestEventData captures one LLM API call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// GenerationEventData captures one assessment generation run, successful or
// not. URIs are empty until persistence succeeds.
type GenerationEventData struct {
	AssessmentID   string
	Level          int
	ElapsedSeconds float64
	QueryCount     int
	ModuleCount    int
	StructuredURI  string
	ReadableURI    string
	Success        bool
	ErrorMessage   string
}

// LevelStats summarizes generation runs for one level.
type LevelStats struct {
	Level      int
	Runs       int
	Successes  int
	AvgElapsed float64
}

// UsageStats summarizes LLM token consumption.
type UsageStats struct {
	Requests     int
	InputTokens  int64
	OutputTokens int64
	Failures     int
	Since        time.Time
}

// EventRepo provides append and summary access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendGeneration records an assessment generation run.
	AppendGeneration(ctx context.Context, data GenerationEventData) error

	// GenerationStats summarizes runs per level, ordered by level.
	GenerationStats(ctx context.Context) ([]LevelStats, error)

	// LLMUsage summarizes token consumption across all recorded calls.
	LLMUsage(ctx context.Context) (UsageStats, error)
}
