package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mll-dev/litassess/internal/assessment"
	"github.com/mll-dev/litassess/internal/background"
	"github.com/mll-dev/litassess/internal/store"
	"github.com/mll-dev/litassess/internal/uploader"
	"github.com/mll-dev/litassess/internal/worker"
)

// stubRunner produces a minimal assessment, or a failure for levels in fail.
type stubRunner struct {
	fail map[int]error
}

func (s *stubRunner) Run(_ context.Context, level int, profile background.Profile) (*assessment.Assessment, error) {
	if err, ok := s.fail[level]; ok {
		return nil, &worker.Failure{Level: level, Stage: worker.StageGeneration, Err: err}
	}
	return &assessment.Assessment{
		ID:             fmt.Sprintf("assessment-%d", level),
		Level:          level,
		CreatedAt:      time.Now().UTC(),
		UserBackground: profile.RawText,
		Metadata:       &assessment.Metadata{QueryCount: 7, ModulesQueried: []string{"Module 1"}},
	}, nil
}

// memEvents records appended events in memory.
type memEvents struct {
	mu          sync.Mutex
	generations []store.GenerationEventData
}

func (m *memEvents) AppendLLMRequest(context.Context, store.LLMRequestEventData) error { return nil }

func (m *memEvents) AppendGeneration(_ context.Context, data store.GenerationEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations = append(m.generations, data)
	return nil
}

func (m *memEvents) GenerationStats(context.Context) ([]store.LevelStats, error) { return nil, nil }
func (m *memEvents) LLMUsage(context.Context) (store.UsageStats, error) {
	return store.UsageStats{}, nil
}

func newTestOrchestrator(runner LevelRunner, objStore uploader.ObjectStore, events store.EventRepo) *Orchestrator {
	up := uploader.New(objStore, "assessments", uploader.RetryPolicy{MaxAttempts: 1})
	return New(func(int) (LevelRunner, error) { return runner, nil }, up, events, 0)
}

func TestHandleSingleLevel(t *testing.T) {
	events := &memEvents{}
	o := newTestOrchestrator(&stubRunner{}, uploader.NewMockStore(), events)

	result, err := o.Handle(context.Background(), "Level 2 assessment for a new teacher")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if len(result.Assessments) != 1 || result.Assessments[0].Level != 2 {
		t.Fatalf("unexpected assessments: %+v", result.Assessments)
	}
	if result.Assessments[0].Storage == nil {
		t.Error("expected storage locators on success")
	}
	if result.ParallelSpeedupPercent != nil {
		t.Error("single level must not report a speedup")
	}
	if len(result.Failed) != 0 {
		t.Errorf("unexpected failures: %+v", result.Failed)
	}

	if len(events.generations) != 1 || !events.generations[0].Success {
		t.Errorf("expected one successful generation event, got %+v", events.generations)
	}
}

func TestHandleMultiLevelSortedWithSpeedup(t *testing.T) {
	o := newTestOrchestrator(&stubRunner{}, uploader.NewMockStore(), &memEvents{})

	result, err := o.Handle(context.Background(), "Levels 1-4, experienced data analyst")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if len(result.Assessments) != 4 {
		t.Fatalf("got %d assessments, want 4", len(result.Assessments))
	}
	for i, a := range result.Assessments {
		if a.Level != i+1 {
			t.Errorf("Assessments[%d].Level = %d, want %d (sorted by level)", i, a.Level, i+1)
		}
	}
	if len(result.Levels) != 4 || result.Levels[0] != 1 || result.Levels[3] != 4 {
		t.Errorf("Levels = %v, want [1 2 3 4]", result.Levels)
	}

	if result.ParallelSpeedupPercent == nil {
		t.Fatal("multi-level request must report a speedup")
	}
	if *result.ParallelSpeedupPercent < 0 {
		t.Errorf("speedup = %f, must be clamped to >= 0", *result.ParallelSpeedupPercent)
	}
}

func TestHandlePartialFailure(t *testing.T) {
	events := &memEvents{}
	runner := &stubRunner{fail: map[int]error{3: errors.New("provider exploded")}}
	o := newTestOrchestrator(runner, uploader.NewMockStore(), events)

	result, err := o.Handle(context.Background(), "Levels 2, 3, and 4")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if len(result.Assessments) != 2 {
		t.Errorf("got %d assessments, want 2", len(result.Assessments))
	}
	if len(result.Failed) != 1 {
		t.Fatalf("got %d failures, want 1: %+v", len(result.Failed), result.Failed)
	}

	f := result.Failed[0]
	if f.Level != 3 || f.Stage != worker.StageGeneration {
		t.Errorf("failure = %+v, want level 3 at generation", f)
	}

	var failed, ok int
	for _, e := range events.generations {
		if e.Success {
			ok++
		} else {
			failed++
		}
	}
	if ok != 2 || failed != 1 {
		t.Errorf("events: %d ok / %d failed, want 2/1", ok, failed)
	}
}

func TestHandleStorageFailure(t *testing.T) {
	objStore := uploader.NewMockStore()
	objStore.FailNext(&uploader.StoreError{Kind: uploader.KindPermanent, Err: errors.New("access denied")})

	o := newTestOrchestrator(&stubRunner{}, objStore, &memEvents{})

	result, err := o.Handle(context.Background(), "Level 1 for a beginner")
	if err == nil {
		t.Fatal("single-level storage failure must surface as the returned error")
	}
	var f *worker.Failure
	if !errors.As(err, &f) || f.Stage != worker.StageStorage {
		t.Fatalf("expected *worker.Failure at storage, got %v", err)
	}

	if len(result.Assessments) != 0 {
		t.Errorf("stored %d assessments despite storage failure", len(result.Assessments))
	}
	if len(result.Failed) != 1 || result.Failed[0].Stage != worker.StageStorage {
		t.Fatalf("expected one storage-stage failure, got %+v", result.Failed)
	}
}

func TestHandleSingleLevelFailureReturnsError(t *testing.T) {
	events := &memEvents{}
	runner := &stubRunner{fail: map[int]error{2: errors.New("provider exploded")}}
	o := newTestOrchestrator(runner, uploader.NewMockStore(), events)

	result, err := o.Handle(context.Background(), "Level 2 for a new teacher")
	if err == nil {
		t.Fatal("single-level failure must surface as the returned error")
	}
	var f *worker.Failure
	if !errors.As(err, &f) || f.Level != 2 || f.Stage != worker.StageGeneration {
		t.Fatalf("expected level 2 *worker.Failure at generation, got %v", err)
	}

	// The result still carries the failure detail for reporting.
	if len(result.Failed) != 1 || result.Failed[0].Level != 2 {
		t.Errorf("Failed = %+v, want one level 2 entry", result.Failed)
	}
	if len(events.generations) != 1 || events.generations[0].Success {
		t.Errorf("expected one failed generation event, got %+v", events.generations)
	}
}

func TestHandleParseFailure(t *testing.T) {
	o := newTestOrchestrator(&stubRunner{}, uploader.NewMockStore(), &memEvents{})

	_, err := o.Handle(context.Background(), "just make me something nice")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestHandleRunnerConstructionFailure(t *testing.T) {
	up := uploader.New(uploader.NewMockStore(), "assessments", uploader.RetryPolicy{MaxAttempts: 1})
	o := New(func(level int) (LevelRunner, error) {
		return nil, fmt.Errorf("no knowledge base for level %d", level)
	}, up, &memEvents{}, 0)

	result, err := o.Handle(context.Background(), "Level 2")
	if err == nil {
		t.Fatal("single-level runner failure must surface as the returned error")
	}
	if len(result.Failed) != 1 || result.Failed[0].Level != 2 {
		t.Fatalf("expected level 2 failure, got %+v", result.Failed)
	}
}

// profileCapture records the profile the runner was handed.
type profileCapture struct {
	stubRunner
	profile background.Profile
}

func (p *profileCapture) Run(ctx context.Context, level int, profile background.Profile) (*assessment.Assessment, error) {
	p.profile = profile
	return p.stubRunner.Run(ctx, level, profile)
}

func TestHandleParsesBackgroundWithoutLevelPhrase(t *testing.T) {
	runner := &profileCapture{}
	o := newTestOrchestrator(runner, uploader.NewMockStore(), &memEvents{})

	_, err := o.Handle(context.Background(),
		"Level 2 assessment. I have 5+ years of software development experience.")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if runner.profile.Years == nil || *runner.profile.Years != 5 {
		t.Errorf("Years = %v, want 5 (level number must not be read as experience)", runner.profile.Years)
	}
	if strings.Contains(runner.profile.RawText, "Level 2") {
		t.Errorf("profile text still carries the level phrase: %q", runner.profile.RawText)
	}
}
