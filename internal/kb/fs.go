package kb

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// passageMaxChars bounds one passage so prompts stay manageable.
const passageMaxChars = 2000

// FSRetriever is a Retriever over a directory of curriculum documents.
// Each .md or .txt file is split into paragraph-ish chunks that are scored
// by keyword overlap with the query. It is a stand-in for a hosted semantic
// search service with the same interface, and good enough for corpora that
// fit on disk.
type FSRetriever struct {
	root string

	// docs is loaded once at construction. Corpora are static for the
	// lifetime of a run.
	docs []document
}

type document struct {
	filename string
	uri      string
	chunks   []string
}

// NewFSRetriever loads all documents under root. The ref is surfaced in
// errors so misconfigured levels are easy to spot.
func NewFSRetriever(root string) (*FSRetriever, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ErrNotFound{Ref: root}
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, &ErrAccessDenied{Ref: root}
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, &ErrNotFound{Ref: root}
	}

	r := &FSRetriever{root: root}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".txt" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		r.docs = append(r.docs, document{
			filename: d.Name(),
			uri:      "file://" + filepath.ToSlash(abs),
			chunks:   splitChunks(string(data)),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, &ErrAccessDenied{Ref: root}
		}
		return nil, err
	}

	return r, nil
}

func (r *FSRetriever) Retrieve(ctx context.Context, query string, maxResults int) ([]Passage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := tokenize(query)

	type scored struct {
		passage Passage
		score   int
		order   int
	}

	var candidates []scored
	order := 0
	for _, doc := range r.docs {
		for _, chunk := range doc.chunks {
			if s := overlapScore(terms, chunk); s > 0 {
				candidates = append(candidates, scored{
					passage: Passage{
						Text:     chunk,
						Citation: Citation{Filename: doc.filename, URI: doc.uri},
					},
					score: s,
					order: order,
				})
			}
			order++
		}
	}

	// Stable by score then document order, so equal-score results don't
	// shuffle between runs.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].order < candidates[j].order
	})

	if maxResults > 0 && len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	passages := make([]Passage, len(candidates))
	for i, c := range candidates {
		passages[i] = c.passage
	}
	return passages, nil
}

// splitChunks breaks a document on blank lines, merging runs so each chunk
// carries enough context to be quotable on its own.
func splitChunks(text string) []string {
	paras := strings.Split(text, "\n\n")

	var chunks []string
	var current strings.Builder
	for _, p := range paras {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p) > passageMaxChars {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func tokenize(s string) map[string]bool {
	terms := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(w) > 2 {
			terms[w] = true
		}
	}
	return terms
}

func overlapScore(terms map[string]bool, chunk string) int {
	score := 0
	for w := range tokenize(chunk) {
		if terms[w] {
			score++
		}
	}
	return score
}
