// Package kb defines the content retriever interface the core consumes and
// the multi-query strategy for gathering diverse curriculum content from a
// level's knowledge base.
package kb

import (
	"context"
	"fmt"
)

// Citation identifies the source document a passage came from.
type Citation struct {
	// Filename is the bare document name extracted from the locator.
	Filename string

	// URI is the storage location of the document.
	URI string
}

// Passage is one retrieval result: a text excerpt plus its source.
type Passage struct {
	Text     string
	Citation Citation
}

// Retriever performs semantic search against one level's corpus.
// Implementations wrap the external knowledge-base service; the core never
// sees its wire format.
type Retriever interface {
	// Retrieve returns up to maxResults passages relevant to the query.
	// Errors are classified: *ErrNotFound when the knowledge-base
	// reference is invalid, *ErrAccessDenied when the caller lacks
	// permission, anything else for other failures.
	Retrieve(ctx context.Context, query string, maxResults int) ([]Passage, error)
}

// ErrNotFound indicates the knowledge-base reference does not exist.
type ErrNotFound struct {
	Ref string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("knowledge base not found: %s", e.Ref)
}

// ErrAccessDenied indicates the caller is not permitted to query the
// knowledge base.
type ErrAccessDenied struct {
	Ref string
}

func (e *ErrAccessDenied) Error() string {
	return fmt.Sprintf("access denied to knowledge base: %s", e.Ref)
}
