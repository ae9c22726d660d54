// Package worker runs the full pipeline for a single assessment level:
// gather diverse curriculum content, generate the question set, and validate
// it into an immutable Assessment.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/mll-dev/litassess/internal/assessment"
	"github.com/mll-dev/litassess/internal/background"
	"github.com/mll-dev/litassess/internal/generator"
	"github.com/mll-dev/litassess/internal/kb"
)

// Pipeline stages, recorded on failures so callers can tell where a level
// died without parsing error strings.
const (
	StageRetrieval  = "retrieval"
	StageGeneration = "generation"
	StageValidation = "validation"
	StageStorage    = "storage"
)

// Failure is a typed per-level failure carrying the stage it happened in.
type Failure struct {
	Level int
	Stage string
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("level %d failed during %s: %v", f.Level, f.Stage, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Worker generates one assessment level end to end.
type Worker struct {
	retriever kb.Retriever
	generator generator.Generator

	// targetModules is how many modules retrieval pads out to.
	targetModules int

	// minModules is the diversity minimum validation enforces.
	minModules int

	now func() time.Time
}

// New creates a Worker. targetModules <= 0 uses the retrieval default;
// minModules <= 0 uses the validation default.
func New(retriever kb.Retriever, gen generator.Generator, targetModules, minModules int) *Worker {
	return &Worker{
		retriever:     retriever,
		generator:     gen,
		targetModules: targetModules,
		minModules:    minModules,
		now:           time.Now,
	}
}

// Run produces a validated assessment for one level. Errors are always
// *Failure so the orchestrator can report the failing stage.
func (w *Worker) Run(ctx context.Context, level int, profile background.Profile) (*assessment.Assessment, error) {
	start := w.now()

	content, err := kb.GatherDiverse(ctx, w.retriever, level, w.targetModules)
	if err != nil {
		return nil, &Failure{Level: level, Stage: StageRetrieval, Err: err}
	}

	out, err := w.generator.Generate(ctx, generator.GenerateInput{
		Level:   level,
		Profile: profile,
		Content: content,
	})
	if err != nil {
		return nil, &Failure{Level: level, Stage: StageGeneration, Err: err}
	}

	a, err := assessment.New(level, out.MCQuestions, out.OEQuestions, profile.RawText, w.minModules)
	if err != nil {
		return nil, &Failure{Level: level, Stage: StageValidation, Err: err}
	}

	a.Metadata = &assessment.Metadata{
		ElapsedSeconds:      w.now().Sub(start).Seconds(),
		QueryCount:          content.QueryCount,
		ModulesQueried:      content.Queried,
		DifficultyHistogram: a.DifficultyHistogram(),
	}

	return a, nil
}
