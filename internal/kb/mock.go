package kb

import (
	"context"
	"sync"
)

// MockResult is a canned response for the MockRetriever.
type MockResult struct {
	Passages []Passage
	Err      error
}

// MockRetriever is a deterministic Retriever for testing. It returns canned
// results in FIFO order and records all queries.
type MockRetriever struct {
	mu      sync.Mutex
	results []MockResult
	Queries []string
}

// NewMockRetriever creates a MockRetriever with the given canned results.
func NewMockRetriever(results ...MockResult) *MockRetriever {
	return &MockRetriever{results: results}
}

// Retrieve returns the next canned result. An empty queue returns no
// passages, mimicking an exhausted corpus.
func (m *MockRetriever) Retrieve(_ context.Context, query string, _ int) ([]Passage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Queries = append(m.Queries, query)

	if len(m.results) == 0 {
		return nil, nil
	}
	res := m.results[0]
	m.results = m.results[1:]
	return res.Passages, res.Err
}

// AddResult appends a canned result to the queue.
func (m *MockRetriever) AddResult(res MockResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, res)
}

// QueryCount returns the number of Retrieve calls made.
func (m *MockRetriever) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}
