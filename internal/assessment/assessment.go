package assessment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InvariantError describes why a candidate assessment was rejected.
type InvariantError struct {
	Level  int
	Errors []string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("assessment validation failed (level %d): %s",
		e.Level, strings.Join(e.Errors, "; "))
}

// New builds an Assessment from validated questions, enforcing the
// structural contract at construction. minModules <= 0 falls back to
// DefaultMinModules. A candidate that fails returns an *InvariantError and
// is discarded; callers must not truncate or pad questions to satisfy the
// contract.
func New(level int, mc []MultipleChoiceQuestion, oe []OpenEndedQuestion, background string, minModules int) (*Assessment, error) {
	report := Validate(level, mc, oe, background, minModules)
	if !report.Valid {
		return nil, &InvariantError{Level: level, Errors: report.Errors}
	}

	if errs := checkQuestionFields(mc, oe); len(errs) > 0 {
		return nil, &InvariantError{Level: level, Errors: errs}
	}

	return &Assessment{
		ID:             uuid.NewString(),
		Level:          level,
		MCQuestions:    mc,
		OEQuestions:    oe,
		CreatedAt:      time.Now().UTC(),
		UserBackground: background,
		ModulesCovered: report.Modules,
	}, nil
}

// checkQuestionFields enforces the per-question field invariants.
func checkQuestionFields(mc []MultipleChoiceQuestion, oe []OpenEndedQuestion) []string {
	var errs []string

	for i, q := range mc {
		if len(strings.TrimSpace(q.QuestionText)) < 10 {
			errs = append(errs, fmt.Sprintf("MC question %d: question_text shorter than 10 characters", i+1))
		}
		if len(q.Options) != 4 {
			errs = append(errs, fmt.Sprintf("MC question %d: expected 4 options, got %d", i+1, len(q.Options)))
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				errs = append(errs, fmt.Sprintf("MC question %d: option %d is empty", i+1, j+1))
			}
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex > 3 {
			errs = append(errs, fmt.Sprintf("MC question %d: correct_answer_index %d out of range", i+1, q.CorrectAnswerIndex))
		}
		if len(strings.TrimSpace(q.Explanation)) < 10 {
			errs = append(errs, fmt.Sprintf("MC question %d: explanation shorter than 10 characters", i+1))
		}
	}

	for i, q := range oe {
		if len(strings.TrimSpace(q.QuestionText)) < 10 {
			errs = append(errs, fmt.Sprintf("OE question %d: question_text shorter than 10 characters", i+1))
		}
		if len(q.ExpectedKeyPoints) < 3 || len(q.ExpectedKeyPoints) > 7 {
			errs = append(errs, fmt.Sprintf("OE question %d: expected 3-7 key points, got %d", i+1, len(q.ExpectedKeyPoints)))
		}
		for j, p := range q.ExpectedKeyPoints {
			if strings.TrimSpace(p) == "" {
				errs = append(errs, fmt.Sprintf("OE question %d: key point %d is empty", i+1, j+1))
			}
		}
		if len(strings.TrimSpace(q.EvaluationCriteria)) < 20 {
			errs = append(errs, fmt.Sprintf("OE question %d: evaluation_criteria shorter than 20 characters", i+1))
		}
	}

	return errs
}

// DifficultyHistogram counts the final questions by difficulty label.
// Computed over the 10 final questions only, not discarded candidates.
func (a *Assessment) DifficultyHistogram() map[Difficulty]int {
	hist := map[Difficulty]int{
		DifficultyBeginner:     0,
		DifficultyIntermediate: 0,
		DifficultyAdvanced:     0,
	}
	for _, q := range a.MCQuestions {
		hist[q.Difficulty]++
	}
	for _, q := range a.OEQuestions {
		hist[q.Difficulty]++
	}
	return hist
}

// QuestionCount returns the total number of questions.
func (a *Assessment) QuestionCount() int {
	return len(a.MCQuestions) + len(a.OEQuestions)
}
