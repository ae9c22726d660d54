package assessment

import (
	"fmt"
	"strings"
)

// RenderMarkdown formats an assessment as a human-readable document:
// a header with id, timestamp, background and module list, a numbered
// section per multiple choice question with the correct option marked,
// a numbered section per open-ended question with its rubric, and a
// trailing generation-metadata block when metadata is present.
func RenderMarkdown(a *Assessment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Literacy Level %d Assessment\n", a.Level)
	fmt.Fprintf(&b, "\n**Assessment ID**: %s\n", a.ID)
	fmt.Fprintf(&b, "**Generated**: %s\n", a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(&b, "**User Background**: %s\n", a.UserBackground)
	fmt.Fprintf(&b, "**Modules Covered**: %s (%d modules)\n",
		strings.Join(a.ModulesCovered, ", "), len(a.ModulesCovered))
	b.WriteString("\n---\n\n")

	fmt.Fprintf(&b, "## Multiple Choice Questions (%d)\n\n", len(a.MCQuestions))
	for i, q := range a.MCQuestions {
		fmt.Fprintf(&b, "### Question %d (MC) - %s\n", i+1, titleCase(string(q.Difficulty)))
		fmt.Fprintf(&b, "**Module**: %s\n\n", q.ModuleSource)
		fmt.Fprintf(&b, "%s\n\n", q.QuestionText)

		for j, opt := range q.Options {
			letter := rune('A' + j)
			marker := ""
			if j == q.CorrectAnswerIndex {
				marker = " ✓ CORRECT"
			}
			fmt.Fprintf(&b, "%c. %s%s\n", letter, opt, marker)
		}

		fmt.Fprintf(&b, "\n**Explanation**: %s\n", q.Explanation)
		writeCitations(&b, q.Citations)
		b.WriteString("\n---\n\n")
	}

	fmt.Fprintf(&b, "## Open-Ended Questions (%d)\n\n", len(a.OEQuestions))
	for i, q := range a.OEQuestions {
		fmt.Fprintf(&b, "### Question %d (OE) - %s\n", len(a.MCQuestions)+i+1, titleCase(string(q.Difficulty)))
		fmt.Fprintf(&b, "**Module**: %s\n\n", q.ModuleSource)
		fmt.Fprintf(&b, "%s\n\n", q.QuestionText)

		b.WriteString("**Key Points to Address**:\n")
		for _, p := range q.ExpectedKeyPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}

		fmt.Fprintf(&b, "\n**Evaluation Criteria**: %s\n", q.EvaluationCriteria)
		writeCitations(&b, q.Citations)
		b.WriteString("\n---\n\n")
	}

	if a.Metadata != nil {
		m := a.Metadata
		b.WriteString("## Generation Metadata\n\n")
		fmt.Fprintf(&b, "- **Generation Time**: %.2fs\n", m.ElapsedSeconds)
		fmt.Fprintf(&b, "- **KB Queries**: %d\n", m.QueryCount)
		fmt.Fprintf(&b, "- **Modules Queried**: %s\n", strings.Join(m.ModulesQueried, ", "))
		fmt.Fprintf(&b, "- **Difficulty Distribution**: Beginner: %d, Intermediate: %d, Advanced: %d\n",
			m.DifficultyHistogram[DifficultyBeginner],
			m.DifficultyHistogram[DifficultyIntermediate],
			m.DifficultyHistogram[DifficultyAdvanced])
	}

	return b.String()
}

func writeCitations(b *strings.Builder, citations []Citation) {
	if len(citations) == 0 {
		return
	}
	b.WriteString("\n**Sources**:\n")
	for _, c := range citations {
		fmt.Fprintf(b, "- %s (%s)\n", c.Filename, c.URI)
	}
}

// titleCase uppercases the first letter. Difficulty labels are ASCII.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
