package assessment

import "time"

// Difficulty is the per-question difficulty label.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Citation links a question back to the source document it was drawn from.
type Citation struct {
	// Filename is the bare document name, e.g. "L2-M3_Prompt_Design.pdf".
	Filename string `json:"filename"`

	// URI is the storage location of the source document.
	URI string `json:"uri"`
}

// MultipleChoiceQuestion is a question with exactly 4 options, one correct.
type MultipleChoiceQuestion struct {
	QuestionText       string     `json:"question_text"`
	Options            []string   `json:"options"`
	CorrectAnswerIndex int        `json:"correct_answer_index"`
	Explanation        string     `json:"explanation"`
	ModuleSource       string     `json:"module_source"`
	Difficulty         Difficulty `json:"difficulty"`
	Citations          []Citation `json:"citations"`
}

// OpenEndedQuestion is a free-response question with a grading rubric.
type OpenEndedQuestion struct {
	QuestionText string `json:"question_text"`

	// ExpectedKeyPoints lists 3-7 points a good answer should cover.
	ExpectedKeyPoints []string `json:"expected_key_points"`

	// EvaluationCriteria describes how to judge response quality.
	EvaluationCriteria string     `json:"evaluation_criteria"`
	ModuleSource       string     `json:"module_source"`
	Difficulty         Difficulty `json:"difficulty"`
	Citations          []Citation `json:"citations"`
}

// Metadata captures how an assessment was generated.
type Metadata struct {
	// ElapsedSeconds is the wall-clock time the level worker spent,
	// from the first retrieval query to final validation.
	ElapsedSeconds float64 `json:"elapsed_seconds"`

	// QueryCount is the number of knowledge-base queries issued.
	QueryCount int `json:"retrieval_query_count"`

	// ModulesQueried lists the module names the worker retrieved content for.
	ModulesQueried []string `json:"modules_queried"`

	// DifficultyHistogram counts the 10 final questions by difficulty.
	DifficultyHistogram map[Difficulty]int `json:"difficulty_histogram"`
}

// Locators holds the storage locations of the two persisted encodings.
type Locators struct {
	StructuredURI string `json:"structured_uri"`
	ReadableURI   string `json:"readable_uri"`
}

// Assessment is a complete literacy assessment for one level:
// exactly 7 multiple choice questions and 3 open-ended questions,
// drawing from at least 5 distinct curriculum modules.
//
// Assessments are immutable after construction. New enforces the
// structural invariants; a candidate that fails them is discarded,
// never patched.
type Assessment struct {
	ID             string                   `json:"id"`
	Level          int                      `json:"level"`
	MCQuestions    []MultipleChoiceQuestion `json:"mc_questions"`
	OEQuestions    []OpenEndedQuestion      `json:"oe_questions"`
	CreatedAt      time.Time                `json:"created_at"`
	UserBackground string                   `json:"user_background"`
	ModulesCovered []string                 `json:"modules_covered"`
	Metadata       *Metadata                `json:"generation_metadata,omitempty"`

	// Storage is set by the persistence gateway after a successful write
	// of both encodings. Nil until then.
	Storage *Locators `json:"storage_locators,omitempty"`
}

// LevelFailure records one level that failed during a multi-level request.
type LevelFailure struct {
	Level  int    `json:"level"`
	Stage  string `json:"stage"` // "retrieval", "generation", "validation", "storage"
	Reason string `json:"reason"`
}

// MultiLevelResult aggregates the outcome of a multi-level request.
// Assessments are sorted by level, independent of completion order.
type MultiLevelResult struct {
	Assessments []Assessment `json:"assessments"`

	// Levels lists the levels that produced an assessment, sorted.
	Levels []int `json:"levels"`

	TotalElapsedSeconds float64 `json:"total_elapsed_seconds"`

	// ParallelSpeedupPercent is present only when more than one level was
	// requested. Clamped to >= 0.
	ParallelSpeedupPercent *float64 `json:"parallel_speedup_percent,omitempty"`

	// Failed lists levels that did not produce an assessment.
	Failed []LevelFailure `json:"failed_levels,omitempty"`
}
