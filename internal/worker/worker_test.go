package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mll-dev/litassess/internal/assessment"
	"github.com/mll-dev/litassess/internal/background"
	"github.com/mll-dev/litassess/internal/generator"
	"github.com/mll-dev/litassess/internal/kb"
)

// stubGenerator returns a fixed output or error.
type stubGenerator struct {
	out  *generator.Output
	err  error
	last generator.GenerateInput
}

func (s *stubGenerator) Generate(_ context.Context, input generator.GenerateInput) (*generator.Output, error) {
	s.last = input
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func validOutput() *generator.Output {
	out := &generator.Output{}
	for i := 0; i < 7; i++ {
		out.MCQuestions = append(out.MCQuestions, assessment.MultipleChoiceQuestion{
			QuestionText:       fmt.Sprintf("What is the central idea of module %d's reading?", i+1),
			Options:            []string{"One", "Two", "Three", "Four"},
			CorrectAnswerIndex: 0,
			Explanation:        "Stated directly in the module summary.",
			ModuleSource:       fmt.Sprintf("Module %d", i%5+1),
			Difficulty:         assessment.DifficultyIntermediate,
		})
	}
	for i := 0; i < 3; i++ {
		out.OEQuestions = append(out.OEQuestions, assessment.OpenEndedQuestion{
			QuestionText:       fmt.Sprintf("Analyze the progression of skills in module %d.", i+1),
			ExpectedKeyPoints:  []string{"one", "two", "three"},
			EvaluationCriteria: "Credit answers that connect skills across modules.",
			ModuleSource:       fmt.Sprintf("Module %d", i+1),
			Difficulty:         assessment.DifficultyAdvanced,
		})
	}
	out.ModulesCovered = []string{"Module 1", "Module 2", "Module 3", "Module 4", "Module 5"}
	return out
}

// overviewPassage yields an overview discovering 6 modules so no synthetic
// padding is needed.
func retrieverWithContent() *kb.MockRetriever {
	r := kb.NewMockRetriever(kb.MockResult{Passages: []kb.Passage{{
		Text: "Module 1: a\nModule 2: b\nModule 3: c\nModule 4: d\nModule 5: e\nModule 6: f",
	}}})
	for i := 0; i < 6; i++ {
		r.AddResult(kb.MockResult{Passages: []kb.Passage{{Text: "detail content"}}})
	}
	return r
}

func TestRun(t *testing.T) {
	gen := &stubGenerator{out: validOutput()}
	w := New(retrieverWithContent(), gen, 6, 0)

	profile := background.Parse("software engineer, 5 years experience")
	a, err := w.Run(context.Background(), 2, profile)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if a.Level != 2 {
		t.Errorf("Level = %d, want 2", a.Level)
	}
	if a.Metadata == nil {
		t.Fatal("expected metadata to be set")
	}
	if a.Metadata.QueryCount != 7 {
		t.Errorf("QueryCount = %d, want 7", a.Metadata.QueryCount)
	}
	if len(a.Metadata.ModulesQueried) != 6 {
		t.Errorf("ModulesQueried = %d, want 6", len(a.Metadata.ModulesQueried))
	}
	if a.Metadata.DifficultyHistogram[assessment.DifficultyAdvanced] != 3 {
		t.Errorf("advanced count = %d, want 3", a.Metadata.DifficultyHistogram[assessment.DifficultyAdvanced])
	}

	if gen.last.Level != 2 {
		t.Errorf("generator saw level %d, want 2", gen.last.Level)
	}
	if gen.last.Content == nil || len(gen.last.Content.Modules) != 6 {
		t.Error("generator did not receive gathered content")
	}
}

func TestRunRecordsAllQueriedModules(t *testing.T) {
	// Module 6's detail query comes back empty, so it is skipped for
	// generation but still counts as queried.
	r := kb.NewMockRetriever(kb.MockResult{Passages: []kb.Passage{{
		Text: "Module 1: a\nModule 2: b\nModule 3: c\nModule 4: d\nModule 5: e\nModule 6: f",
	}}})
	for i := 0; i < 5; i++ {
		r.AddResult(kb.MockResult{Passages: []kb.Passage{{Text: "detail content"}}})
	}
	r.AddResult(kb.MockResult{Passages: nil})

	gen := &stubGenerator{out: validOutput()}
	w := New(r, gen, 6, 0)

	a, err := w.Run(context.Background(), 2, background.Profile{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(a.Metadata.ModulesQueried) != 6 {
		t.Errorf("ModulesQueried = %v, want all 6 queried modules", a.Metadata.ModulesQueried)
	}
	if gen.last.Content == nil || len(gen.last.Content.Modules) != 5 {
		t.Error("generator should only see the 5 modules that returned content")
	}
}

func TestRunHonorsMinModules(t *testing.T) {
	// validOutput covers 5 modules; a configured minimum of 6 rejects it.
	w := New(retrieverWithContent(), &stubGenerator{out: validOutput()}, 6, 6)

	_, err := w.Run(context.Background(), 2, background.Profile{})
	var f *Failure
	if !errors.As(err, &f) || f.Stage != StageValidation {
		t.Fatalf("expected validation-stage *Failure, got %v", err)
	}
}

func TestRunFailureStages(t *testing.T) {
	tests := []struct {
		name      string
		retriever kb.Retriever
		gen       generator.Generator
		wantStage string
	}{
		{
			"retrieval failure",
			kb.NewMockRetriever(kb.MockResult{Err: &kb.ErrNotFound{Ref: "kb-2"}}),
			&stubGenerator{out: validOutput()},
			StageRetrieval,
		},
		{
			"generation failure",
			retrieverWithContent(),
			&stubGenerator{err: errors.New("provider down")},
			StageGeneration,
		},
		{
			"validation failure",
			retrieverWithContent(),
			&stubGenerator{out: &generator.Output{}}, // empty set violates the mix
			StageValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(tt.retriever, tt.gen, 6, 0)
			_, err := w.Run(context.Background(), 2, background.Profile{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var f *Failure
			if !errors.As(err, &f) {
				t.Fatalf("expected *Failure, got %T", err)
			}
			if f.Stage != tt.wantStage {
				t.Errorf("Stage = %q, want %q", f.Stage, tt.wantStage)
			}
			if f.Level != 2 {
				t.Errorf("Level = %d, want 2", f.Level)
			}
		})
	}
}
