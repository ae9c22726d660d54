package kb

import (
	"context"
	"fmt"
	"strings"
)

// Default query fan-out: a generous overview query to discover modules,
// then a small targeted query per module.
const (
	OverviewResultCount = 8
	DetailResultCount   = 3
	DefaultTargetModules = 6
)

// ModuleContent maps discovered module names to the passages retrieved for
// them, preserving discovery order.
type ModuleContent struct {
	// Modules is the ordered list of module names that returned content.
	Modules []string

	// Queried lists every module a detail query was issued for, including
	// ones whose query failed or returned nothing.
	Queried []string

	// Passages holds the retrieved passages per module.
	Passages map[string][]Passage

	// QueryCount is the total number of retrieval queries issued,
	// including the overview query.
	QueryCount int
}

// GatherDiverse queries the knowledge base multiple times to collect
// content from diverse modules: first a curriculum-overview query to
// discover module names, then one targeted query per module. Modules whose
// targeted query returns nothing are skipped rather than failing the run.
//
// A total failure of the overview query is fatal; per-module failures are
// tolerated because the caller pads with synthetic module names anyway.
func GatherDiverse(ctx context.Context, r Retriever, level, targetModules int) (*ModuleContent, error) {
	if targetModules <= 0 {
		targetModules = DefaultTargetModules
	}

	overviewQuery := fmt.Sprintf(
		"List the main modules, courses, and topics in Level %d literacy curriculum", level)
	overview, err := r.Retrieve(ctx, overviewQuery, OverviewResultCount)
	if err != nil {
		return nil, fmt.Errorf("curriculum overview query: %w", err)
	}

	modules := ExtractModules(overview, level, targetModules)

	content := &ModuleContent{
		Passages:   make(map[string][]Passage, targetModules),
		QueryCount: 1,
	}

	for _, module := range modules[:min(targetModules, len(modules))] {
		content.Queried = append(content.Queried, module)
		detailQuery := fmt.Sprintf(
			"Detailed content, concepts, and examples for %s in Level %d curriculum", module, level)
		passages, err := r.Retrieve(ctx, detailQuery, DetailResultCount)
		content.QueryCount++
		if err != nil || len(passages) == 0 {
			// Skip modules with no content; diversity padding covers the gap.
			continue
		}
		content.Modules = append(content.Modules, module)
		content.Passages[module] = passages
	}

	return content, nil
}

// Module-name extraction keywords. Lines containing any of these are
// treated as module headings.
var moduleKeywords = []string{"module", "course", "unit", "chapter"}

// ExtractModules parses candidate module names out of overview passages
// with a line-oriented heuristic: keep lines mentioning a module keyword,
// truncate at the first colon or period, and deduplicate
// case-insensitively. When fewer than targetCount names are found, the list
// is padded with synthetic "Level {n} Module {i}" names so downstream
// querying always has enough targets. Diversity counting downstream depends
// on whatever names this step emits, synthetic padding included.
func ExtractModules(overview []Passage, level, targetCount int) []string {
	var modules []string
	for _, p := range overview {
		for _, line := range strings.Split(p.Text, "\n") {
			line = strings.TrimSpace(line)
			if !containsKeyword(strings.ToLower(line)) {
				continue
			}
			name := line
			if i := strings.IndexByte(name, ':'); i >= 0 {
				name = name[:i]
			}
			if i := strings.IndexByte(name, '.'); i >= 0 {
				name = name[:i]
			}
			name = strings.TrimSpace(name)
			if name != "" && len(name) < 100 {
				modules = append(modules, name)
			}
		}
	}

	// Deduplicate case-insensitively, preserving order.
	seen := make(map[string]bool, len(modules))
	unique := modules[:0]
	for _, m := range modules {
		key := strings.ToLower(m)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, m)
		}
	}

	for i := len(unique); i < targetCount; i++ {
		unique = append(unique, fmt.Sprintf("Level %d Module %d", level, i+1))
	}

	return unique
}

func containsKeyword(line string) bool {
	for _, kw := range moduleKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}
