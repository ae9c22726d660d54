package generator

import (
	"github.com/mll-dev/litassess/internal/assessment"
	"github.com/mll-dev/litassess/internal/llm"
)

// AssessmentSchema defines the JSON schema for assessment generation
// responses. The structural contract (7 MC, 3 OE) is encoded here so the
// provider's structured-output mode enforces the counts before our own
// validation ever sees the result.
var AssessmentSchema = &llm.Schema{
	Name:        "literacy-assessment",
	Description: "A complete literacy assessment question set for one level",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mc_questions": map[string]any{
				"type":        "array",
				"minItems":    assessment.MCCount,
				"maxItems":    assessment.MCCount,
				"items":       mcQuestionSchema,
				"description": "Exactly 7 multiple-choice questions",
			},
			"oe_questions": map[string]any{
				"type":        "array",
				"minItems":    assessment.OECount,
				"maxItems":    assessment.OECount,
				"items":       oeQuestionSchema,
				"description": "Exactly 3 open-ended questions",
			},
			"modules_covered": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "Names of all curriculum modules the questions draw from",
			},
		},
		"required":             []any{"mc_questions", "oe_questions", "modules_covered"},
		"additionalProperties": false,
	},
}

var mcQuestionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question_text": map[string]any{
			"type":        "string",
			"description": "The question prompt, self-contained and unambiguous",
		},
		"options": map[string]any{
			"type":     "array",
			"minItems": 4,
			"maxItems": 4,
			"items": map[string]any{
				"type": "string",
			},
			"description": "Exactly 4 answer options where exactly one is correct",
		},
		"correct_answer_index": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"maximum":     3,
			"description": "Zero-based index of the correct option",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "Why the correct answer is correct, grounded in the source material",
		},
		"module_source": map[string]any{
			"type":        "string",
			"description": "The curriculum module this question is drawn from",
		},
		"difficulty": map[string]any{
			"type":        "string",
			"enum":        []any{"beginner", "intermediate", "advanced"},
			"description": "Difficulty calibrated to the learner's background",
		},
		"citations": citationsSchema,
	},
	"required":             []any{"question_text", "options", "correct_answer_index", "explanation", "module_source", "difficulty", "citations"},
	"additionalProperties": false,
}

var oeQuestionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question_text": map[string]any{
			"type":        "string",
			"description": "The open-ended prompt asking for analysis or synthesis",
		},
		"expected_key_points": map[string]any{
			"type":     "array",
			"minItems": 3,
			"maxItems": 7,
			"items": map[string]any{
				"type": "string",
			},
			"description": "3-7 key points a strong answer should cover",
		},
		"evaluation_criteria": map[string]any{
			"type":        "string",
			"description": "How a grader should score responses to this question",
		},
		"module_source": map[string]any{
			"type":        "string",
			"description": "The curriculum module this question is drawn from",
		},
		"difficulty": map[string]any{
			"type":        "string",
			"enum":        []any{"beginner", "intermediate", "advanced"},
			"description": "Difficulty calibrated to the learner's background",
		},
		"citations": citationsSchema,
	},
	"required":             []any{"question_text", "expected_key_points", "evaluation_criteria", "module_source", "difficulty", "citations"},
	"additionalProperties": false,
}

var citationsSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filename": map[string]any{
				"type":        "string",
				"description": "Source document filename",
			},
			"uri": map[string]any{
				"type":        "string",
				"description": "Source document URI",
			},
		},
		"required":             []any{"filename", "uri"},
		"additionalProperties": false,
	},
	"description": "Source passages this question is grounded in",
}
