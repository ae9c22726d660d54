// Package orchestrator coordinates multi-level assessment generation: it
// parses the request, fans levels out to workers, persists the results, and
// aggregates partial failures into one response.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mll-dev/litassess/internal/assessment"
	"github.com/mll-dev/litassess/internal/background"
	"github.com/mll-dev/litassess/internal/store"
	"github.com/mll-dev/litassess/internal/uploader"
	"github.com/mll-dev/litassess/internal/worker"
)

// LevelRunner generates one assessment level. *worker.Worker implements it.
type LevelRunner interface {
	Run(ctx context.Context, level int, profile background.Profile) (*assessment.Assessment, error)
}

// RunnerFunc builds the runner for one level. Levels can be backed by
// different knowledge bases, so runners are constructed per level.
type RunnerFunc func(level int) (LevelRunner, error)

// Orchestrator handles whole generation requests.
type Orchestrator struct {
	runnerFor RunnerFunc
	uploader  *uploader.Uploader
	events    store.EventRepo

	// deadline bounds the whole request. Zero means no deadline.
	deadline time.Duration

	now func() time.Time
}

// New creates an Orchestrator.
func New(runnerFor RunnerFunc, up *uploader.Uploader, events store.EventRepo, deadline time.Duration) *Orchestrator {
	return &Orchestrator{
		runnerFor: runnerFor,
		uploader:  up,
		events:    events,
		deadline:  deadline,
		now:       time.Now,
	}
}

// levelResult tags one level's outcome so fan-in never has to guess which
// request a completion belongs to.
type levelResult struct {
	level   int
	a       *assessment.Assessment
	elapsed time.Duration
	err     error
}

// Handle runs one generation request end to end. The request text carries
// both the level selection and the learner's background; the background
// profile is parsed from the request with the level phrases stripped. In a
// multi-level request a failing level never sinks the rest: the result
// reports per-level failures alongside whatever completed. A single-level
// request surfaces its failure as the returned error.
func (o *Orchestrator) Handle(ctx context.Context, request string) (*assessment.MultiLevelResult, error) {
	levels, err := ParseLevels(request)
	if err != nil {
		return nil, err
	}

	profile := background.Parse(StripLevels(request))

	if o.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.deadline)
		defer cancel()
	}

	start := o.now()
	results := o.runLevels(ctx, levels, profile)
	wall := o.now().Sub(start)

	out := &assessment.MultiLevelResult{
		TotalElapsedSeconds: wall.Seconds(),
	}

	var sequentialEstimate time.Duration
	var levelErr error
	for _, res := range results {
		sequentialEstimate += res.elapsed

		if res.err != nil {
			out.Failed = append(out.Failed, toFailure(res.level, res.err))
			o.logGeneration(ctx, res, nil, res.err)
			levelErr = res.err
			continue
		}

		loc, storeErr := o.uploader.Store(ctx, res.a)
		if storeErr != nil {
			f := &worker.Failure{Level: res.level, Stage: worker.StageStorage, Err: storeErr}
			out.Failed = append(out.Failed, toFailure(res.level, f))
			o.logGeneration(ctx, res, nil, f)
			levelErr = f
			continue
		}
		res.a.Storage = loc

		out.Assessments = append(out.Assessments, *res.a)
		out.Levels = append(out.Levels, res.level)
		o.logGeneration(ctx, res, loc, nil)
	}

	sort.Slice(out.Assessments, func(i, j int) bool {
		return out.Assessments[i].Level < out.Assessments[j].Level
	})
	sort.Ints(out.Levels)
	sort.Slice(out.Failed, func(i, j int) bool {
		return out.Failed[i].Level < out.Failed[j].Level
	})

	if len(levels) > 1 {
		speedup := speedupPercent(sequentialEstimate, wall)
		out.ParallelSpeedupPercent = &speedup
	}

	if len(levels) == 1 && levelErr != nil {
		return out, levelErr
	}
	return out, nil
}

// runLevels executes the requested levels. A single level runs inline; more
// than one fans out to concurrent workers over a tagged-result channel.
func (o *Orchestrator) runLevels(ctx context.Context, levels []int, profile background.Profile) []levelResult {
	if len(levels) == 1 {
		return []levelResult{o.runOne(ctx, levels[0], profile)}
	}

	ch := make(chan levelResult, len(levels))
	for _, level := range levels {
		go func(level int) {
			ch <- o.runOne(ctx, level, profile)
		}(level)
	}

	results := make([]levelResult, 0, len(levels))
	for range levels {
		results = append(results, <-ch)
	}
	return results
}

func (o *Orchestrator) runOne(ctx context.Context, level int, profile background.Profile) levelResult {
	start := o.now()

	runner, err := o.runnerFor(level)
	if err != nil {
		return levelResult{
			level:   level,
			elapsed: o.now().Sub(start),
			err:     &worker.Failure{Level: level, Stage: worker.StageRetrieval, Err: err},
		}
	}

	a, err := runner.Run(ctx, level, profile)
	return levelResult{level: level, a: a, elapsed: o.now().Sub(start), err: err}
}

// speedupPercent estimates the saving of concurrent execution against a
// sequential baseline built from the per-level durations. Clamped to zero:
// scheduling noise can make the wall time exceed the estimate, and a
// negative speedup is meaningless to report.
func speedupPercent(sequential, wall time.Duration) float64 {
	if sequential <= 0 {
		return 0
	}
	pct := (sequential - wall).Seconds() / sequential.Seconds() * 100
	if pct < 0 {
		return 0
	}
	return pct
}

// toFailure converts a worker error into the reportable form. Errors that
// are not *worker.Failure are attributed to generation, the broadest stage.
func toFailure(level int, err error) assessment.LevelFailure {
	if f, ok := err.(*worker.Failure); ok {
		return assessment.LevelFailure{Level: f.Level, Stage: f.Stage, Reason: f.Err.Error()}
	}
	return assessment.LevelFailure{Level: level, Stage: worker.StageGeneration, Reason: err.Error()}
}

// logGeneration records the level outcome in the event log. Logging is best
// effort; a failed append never fails the request.
func (o *Orchestrator) logGeneration(ctx context.Context, res levelResult, loc *assessment.Locators, failure error) {
	data := store.GenerationEventData{
		Level:          res.level,
		ElapsedSeconds: res.elapsed.Seconds(),
		Success:        failure == nil,
	}
	if res.a != nil {
		data.AssessmentID = res.a.ID
		if res.a.Metadata != nil {
			data.QueryCount = res.a.Metadata.QueryCount
			data.ModuleCount = len(res.a.Metadata.ModulesQueried)
		}
	}
	if loc != nil {
		data.StructuredURI = loc.StructuredURI
		data.ReadableURI = loc.ReadableURI
	}
	if failure != nil {
		data.ErrorMessage = failure.Error()
	}

	if err := o.events.AppendGeneration(ctx, data); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log generation event: %v\n", err)
	}
}
