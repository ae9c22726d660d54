package uploader

import (
	"context"
	"sync"
)

// MockPut records one Put call.
type MockPut struct {
	Key  string
	Body []byte
	Opts PutOptions
}

// MockStore is an in-memory ObjectStore for tests. Errors are consumed FIFO
// per key; once a key's queue drains, Puts succeed.
type MockStore struct {
	mu     sync.Mutex
	Puts   []MockPut
	errs   map[string][]error
	allErr []error
}

func NewMockStore() *MockStore {
	return &MockStore{errs: make(map[string][]error)}
}

// FailKey queues an error for the next Put of the given key.
func (m *MockStore) FailKey(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[key] = append(m.errs[key], err)
}

// FailNext queues an error for the next Put of any key.
func (m *MockStore) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allErr = append(m.allErr, err)
}

func (m *MockStore) Put(ctx context.Context, key string, body []byte, opts PutOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Puts = append(m.Puts, MockPut{Key: key, Body: body, Opts: opts})

	if q := m.errs[key]; len(q) > 0 {
		err := q[0]
		m.errs[key] = q[1:]
		return "", err
	}
	if len(m.allErr) > 0 {
		err := m.allErr[0]
		m.allErr = m.allErr[1:]
		return "", err
	}

	return "mock://" + key, nil
}

// PutCount returns how many Puts were attempted.
func (m *MockStore) PutCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Puts)
}
