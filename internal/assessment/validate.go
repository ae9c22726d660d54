package assessment

import (
	"fmt"
	"sort"
	"strings"
)

// Structural contract constants. Every assessment carries exactly this
// question mix; diversity is configurable but defaults to 5.
const (
	MCCount           = 7
	OECount           = 3
	DefaultMinModules = 5
)

// ValidateMix reports whether the question mix is exactly 7 MC + 3 OE.
func ValidateMix(mc []MultipleChoiceQuestion, oe []OpenEndedQuestion) bool {
	return len(mc) == MCCount && len(oe) == OECount
}

// ValidateDiversity reports whether the questions span at least minModules
// distinct module sources.
func ValidateDiversity(mc []MultipleChoiceQuestion, oe []OpenEndedQuestion, minModules int) bool {
	return len(CollectModules(mc, oe)) >= minModules
}

// ValidateUniqueness reports whether no two questions across both kinds
// share the same question text, compared case-insensitively.
func ValidateUniqueness(mc []MultipleChoiceQuestion, oe []OpenEndedQuestion) bool {
	seen := make(map[string]bool, len(mc)+len(oe))
	for _, q := range mc {
		key := strings.ToLower(q.QuestionText)
		if seen[key] {
			return false
		}
		seen[key] = true
	}
	for _, q := range oe {
		key := strings.ToLower(q.QuestionText)
		if seen[key] {
			return false
		}
		seen[key] = true
	}
	return true
}

// CollectModules returns the sorted set of module sources across all questions.
func CollectModules(mc []MultipleChoiceQuestion, oe []OpenEndedQuestion) []string {
	set := make(map[string]bool, len(mc)+len(oe))
	for _, q := range mc {
		set[q.ModuleSource] = true
	}
	for _, q := range oe {
		set[q.ModuleSource] = true
	}
	modules := make([]string, 0, len(set))
	for m := range set {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	return modules
}

// Report is the outcome of validating a candidate assessment.
// Errors block construction; warnings are advisory only.
type Report struct {
	Valid       bool
	Errors      []string
	Warnings    []string
	Modules     []string
	ModuleCount int
}

// Validate checks a candidate question set against the structural contract.
// minModules <= 0 falls back to DefaultMinModules.
//
// Wrong question mix, insufficient module diversity and an out-of-range
// level are errors: they violate the contract and block construction.
// Duplicate question text and an empty background are warnings: content
// quality issues that are logged but do not block.
func Validate(level int, mc []MultipleChoiceQuestion, oe []OpenEndedQuestion, background string, minModules int) Report {
	if minModules <= 0 {
		minModules = DefaultMinModules
	}

	var errs, warns []string

	if !ValidateMix(mc, oe) {
		errs = append(errs, fmt.Sprintf(
			"invalid question mix: expected %d MC + %d OE, got %d MC + %d OE",
			MCCount, OECount, len(mc), len(oe)))
	}

	modules := CollectModules(mc, oe)
	if len(modules) < minModules {
		errs = append(errs, fmt.Sprintf(
			"insufficient module diversity: expected %d+, got %d (%s)",
			minModules, len(modules), strings.Join(modules, ", ")))
	}

	if !ValidateUniqueness(mc, oe) {
		warns = append(warns, "duplicate question text detected")
	}

	if level < 1 || level > 4 {
		errs = append(errs, fmt.Sprintf("invalid level: %d (must be 1-4)", level))
	}

	if strings.TrimSpace(background) == "" {
		warns = append(warns, "empty user background provided")
	}

	return Report{
		Valid:       len(errs) == 0,
		Errors:      errs,
		Warnings:    warns,
		Modules:     modules,
		ModuleCount: len(modules),
	}
}
