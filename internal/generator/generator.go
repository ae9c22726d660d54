// Package generator turns gathered curriculum content into a full question
// set for one assessment level, using the LLM provider's structured output.
package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mll-dev/litassess/internal/assessment"
	"github.com/mll-dev/litassess/internal/background"
	"github.com/mll-dev/litassess/internal/kb"
	"github.com/mll-dev/litassess/internal/llm"
)

// GenerateInput carries everything one generation call needs.
type GenerateInput struct {
	Level   int
	Profile background.Profile
	Content *kb.ModuleContent
}

// Output is the parsed question set before invariant validation. The worker
// runs assessment.New on it; the generator only guarantees well-formed JSON.
type Output struct {
	MCQuestions    []assessment.MultipleChoiceQuestion
	OEQuestions    []assessment.OpenEndedQuestion
	ModulesCovered []string
}

// Generator produces assessment question sets using an LLM provider.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (*Output, error)
}

// Config holds generation tunables.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns generation defaults. Question sets are long, so the
// token cap is generous.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   16000,
		Temperature: 0.7,
	}
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// questionSetOutput is the raw LLM response before validation.
type questionSetOutput struct {
	MCQuestions []struct {
		QuestionText       string         `json:"question_text"`
		Options            []string       `json:"options"`
		CorrectAnswerIndex int            `json:"correct_answer_index"`
		Explanation        string         `json:"explanation"`
		ModuleSource       string         `json:"module_source"`
		Difficulty         string         `json:"difficulty"`
		Citations          []citationJSON `json:"citations"`
	} `json:"mc_questions"`
	OEQuestions []struct {
		QuestionText       string         `json:"question_text"`
		ExpectedKeyPoints  []string       `json:"expected_key_points"`
		EvaluationCriteria string         `json:"evaluation_criteria"`
		ModuleSource       string         `json:"module_source"`
		Difficulty         string         `json:"difficulty"`
		Citations          []citationJSON `json:"citations"`
	} `json:"oe_questions"`
	ModulesCovered []string `json:"modules_covered"`
}

type citationJSON struct {
	Filename string `json:"filename"`
	URI      string `json:"uri"`
}

// Generate produces the full question set for one level.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*Output, error) {
	ctx = llm.WithPurpose(ctx, fmt.Sprintf("assessment-gen-level-%d", input.Level))

	userMsg := buildUserMessage(input)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      AssessmentSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw questionSetOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	out := &Output{
		MCQuestions:    make([]assessment.MultipleChoiceQuestion, len(raw.MCQuestions)),
		OEQuestions:    make([]assessment.OpenEndedQuestion, len(raw.OEQuestions)),
		ModulesCovered: raw.ModulesCovered,
	}

	for i, q := range raw.MCQuestions {
		out.MCQuestions[i] = assessment.MultipleChoiceQuestion{
			QuestionText:       q.QuestionText,
			Options:            q.Options,
			CorrectAnswerIndex: q.CorrectAnswerIndex,
			Explanation:        q.Explanation,
			ModuleSource:       q.ModuleSource,
			Difficulty:         assessment.Difficulty(q.Difficulty),
			Citations:          convertCitations(q.Citations),
		}
	}

	for i, q := range raw.OEQuestions {
		out.OEQuestions[i] = assessment.OpenEndedQuestion{
			QuestionText:       q.QuestionText,
			ExpectedKeyPoints:  q.ExpectedKeyPoints,
			EvaluationCriteria: q.EvaluationCriteria,
			ModuleSource:       q.ModuleSource,
			Difficulty:         assessment.Difficulty(q.Difficulty),
			Citations:          convertCitations(q.Citations),
		}
	}

	return out, nil
}

func convertCitations(raw []citationJSON) []assessment.Citation {
	if len(raw) == 0 {
		return nil
	}
	out := make([]assessment.Citation, len(raw))
	for i, c := range raw {
		out[i] = assessment.Citation{Filename: c.Filename, URI: c.URI}
	}
	return out
}
