// Package background turns a free-form user background description into a
// structured profile used to calibrate question scenarios.
package background

import (
	"strconv"
	"strings"
)

// Tier is the parsed experience tier.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
	TierExpert       Tier = "expert"
)

// Profile is the structured summary of a user's stated background.
// Built once per request and read-only afterward.
type Profile struct {
	// RawText is the original background description.
	RawText string

	Tier Tier

	// Domain is the user's field, if one of the known keywords matched.
	// Empty when unrecognized.
	Domain string

	// Years is the stated years of experience. Nil when no integer token
	// was found.
	Years *int
}

// Keyword tables, checked in precedence order. First match wins.
var (
	beginnerWords = []string{"beginner", "new", "no experience", "just starting"}
	expertWords   = []string{"expert", "senior", "10+ years", "experienced"}
	advancedWords = []string{"advanced", "proficient", "5+ years"}

	domainWords = []string{"software", "data", "engineering", "teaching", "business", "healthcare"}
)

// Parse extracts a Profile from free-form text. It never fails:
// unrecognized input degrades to the intermediate tier with no domain and
// no years. This heuristic is a fallback — the content generator may apply
// a richer interpretation of the background inside its own prompt, but this
// contract holds so the pipeline is testable without it.
func Parse(text string) Profile {
	lower := strings.ToLower(text)

	tier := TierIntermediate
	switch {
	case containsAny(lower, beginnerWords):
		tier = TierBeginner
	case containsAny(lower, expertWords):
		tier = TierExpert
	case containsAny(lower, advancedWords):
		tier = TierAdvanced
	}

	// First token with a leading digit run wins, so "5+" and "12" both
	// count. Callers are expected to pass only the background portion of a
	// request; level phrases are stripped before parsing.
	var years *int
	for _, tok := range strings.Fields(lower) {
		digits := leadingDigits(tok)
		if digits == "" {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		years = &n
		break
	}

	domain := ""
	for _, d := range domainWords {
		if strings.Contains(lower, d) {
			domain = d
			break
		}
	}

	return Profile{
		RawText: text,
		Tier:    tier,
		Domain:  domain,
		Years:   years,
	}
}

// QuestionDifficulty maps the experience tier to the difficulty label used
// for generated questions. Expert users get advanced questions within the
// level; there is no separate expert difficulty.
func (p Profile) QuestionDifficulty() string {
	switch p.Tier {
	case TierBeginner:
		return "beginner"
	case TierAdvanced, TierExpert:
		return "advanced"
	default:
		return "intermediate"
	}
}

func leadingDigits(tok string) string {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	return tok[:i]
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
