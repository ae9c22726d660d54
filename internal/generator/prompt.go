package generator

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an assessment designer creating literacy assessments from course material.

Rules:
- Generate exactly 7 multiple-choice questions and exactly 3 open-ended questions.
- Every question must be answerable from the provided course content alone. Do not rely on outside knowledge.
- Draw questions from at least 5 distinct modules. Set module_source to the module each question comes from.
- Cite the specific source passages each question is grounded in.
- For multiple choice, provide exactly 4 options where exactly one is correct. Distractors should reflect plausible misunderstandings of the material, not random values.
- Open-ended questions should require analysis or synthesis, not recall. List 3-7 key points a strong answer covers and state how a grader should score responses.
- Calibrate difficulty to the learner's stated background: push toward the target difficulty but stay within what the content supports.
- Do not repeat questions. Each question must test something different.`

// buildUserMessage constructs the user message from the level, the learner's
// background, and the gathered module content.
func buildUserMessage(input GenerateInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Assessment level: %d\n", input.Level)
	fmt.Fprintf(&b, "Target difficulty: %s\n", input.Profile.QuestionDifficulty())
	fmt.Fprintf(&b, "Learner tier: %s\n", input.Profile.Tier)
	if input.Profile.Domain != "" {
		fmt.Fprintf(&b, "Learner domain: %s\n", input.Profile.Domain)
	}
	if input.Profile.Years != nil {
		fmt.Fprintf(&b, "Years of experience: %d\n", *input.Profile.Years)
	}
	if input.Profile.RawText != "" {
		b.WriteString("\nLearner background:\n")
		b.WriteString(strings.TrimSpace(input.Profile.RawText))
		b.WriteString("\n")
	}

	b.WriteString("\nCourse content by module:\n")
	for _, module := range input.Content.Modules {
		passages := input.Content.Passages[module]
		fmt.Fprintf(&b, "\n## %s\n", module)
		if len(passages) == 0 {
			b.WriteString("(no content retrieved for this module)\n")
			continue
		}
		for _, p := range passages {
			fmt.Fprintf(&b, "\n[Source: %s | %s]\n", p.Citation.Filename, p.Citation.URI)
			b.WriteString(strings.TrimSpace(p.Text))
			b.WriteString("\n")
		}
	}

	return b.String()
}
