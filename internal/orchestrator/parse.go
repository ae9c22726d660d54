package orchestrator

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mll-dev/litassess/internal/config"
)

// ParseError is a structured request-parse failure. It is a user error, not
// a system one: the request named no usable level.
type ParseError struct {
	Request string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse request: %s", e.Reason)
}

var (
	levelRangeRe = regexp.MustCompile(`(?i)levels?\s+(\d)\s*(?:-|to|through)\s*(\d)`)
	levelListRe  = regexp.MustCompile(`(?i)levels?\s+((?:\d|,|&|and|\s)+)`)
	allLevelsRe  = regexp.MustCompile(`(?i)\b(?:all|every)\s+levels?\b`)
	digitRe      = regexp.MustCompile(`\d`)
)

// ParseLevels extracts the requested assessment levels from free-form text.
// It understands "Level 2", "Levels 1, 2, and 3", "Levels 1-4", and
// "all levels". Levels are deduplicated and returned sorted. A request that
// names no level, or only out-of-range ones, fails with *ParseError.
func ParseLevels(text string) ([]int, error) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "all levels") || strings.Contains(lower, "every level") {
		return allLevels(), nil
	}

	seen := make(map[int]bool)
	var outOfRange []int

	record := func(n int) {
		if n >= config.MinLevel && n <= config.MaxLevel {
			seen[n] = true
		} else {
			outOfRange = append(outOfRange, n)
		}
	}

	if m := levelRangeRe.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo > hi {
			lo, hi = hi, lo
		}
		for n := lo; n <= hi; n++ {
			record(n)
		}
	} else if m := levelListRe.FindStringSubmatch(text); m != nil {
		for _, d := range digitRe.FindAllString(m[1], -1) {
			n, _ := strconv.Atoi(d)
			record(n)
		}
	}

	if len(seen) == 0 {
		if len(outOfRange) > 0 {
			return nil, &ParseError{
				Request: text,
				Reason: fmt.Sprintf("requested level(s) %v outside supported range %d-%d",
					outOfRange, config.MinLevel, config.MaxLevel),
			}
		}
		return nil, &ParseError{
			Request: text,
			Reason:  `no level found; say e.g. "Level 2", "Levels 1-3", or "all levels"`,
		}
	}

	levels := make([]int, 0, len(seen))
	for n := range seen {
		levels = append(levels, n)
	}
	sort.Ints(levels)
	return levels, nil
}

// StripLevels removes the level-selection phrases from a request, leaving
// the background portion. Numbers naming levels would otherwise be mistaken
// for years of experience by the background parser.
func StripLevels(text string) string {
	out := levelRangeRe.ReplaceAllString(text, "")
	out = levelListRe.ReplaceAllString(out, "")
	out = allLevelsRe.ReplaceAllString(out, "")
	return strings.Join(strings.Fields(out), " ")
}

func allLevels() []int {
	levels := make([]int, 0, config.MaxLevel-config.MinLevel+1)
	for n := config.MinLevel; n <= config.MaxLevel; n++ {
		levels = append(levels, n)
	}
	return levels
}
