// Package uploader persists finished assessments to an object store, in both
// the structured JSON encoding and the human-readable markdown rendering.
package uploader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mll-dev/litassess/internal/assessment"
)

// MaxConcurrentUploads bounds the worker pool used by StoreAll.
const MaxConcurrentUploads = 5

// ErrorKind classifies store failures for retry decisions.
type ErrorKind int

const (
	// KindUnknown is a failure the store could not classify. Retried.
	KindUnknown ErrorKind = iota
	// KindTransient is a failure expected to clear on its own. Retried.
	KindTransient
	// KindPermanent is a failure retrying cannot fix. Failed immediately.
	KindPermanent
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// StoreError is a classified object-store failure.
type StoreError struct {
	Kind ErrorKind
	Key  string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %s error: %v", e.Key, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ErrRetriesExhausted wraps the last attempt's error once the retry budget
// is spent. Distinct from the underlying error so callers can tell "gave up"
// from "failed immediately".
type ErrRetriesExhausted struct {
	Attempts int
	Err      error
}

func (e *ErrRetriesExhausted) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ErrRetriesExhausted) Unwrap() error { return e.Err }

// PutOptions carries the object's content type and metadata.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// ObjectStore is the storage backend. Put writes one object and returns the
// URI it is reachable at. Failures should be *StoreError so the uploader can
// classify them; anything else is treated as KindUnknown.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, opts PutOptions) (string, error)
}

// RetryPolicy controls how Put failures are retried. Backoff holds the sleep
// before each retry, so MaxAttempts should be len(Backoff)+1.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     []time.Duration
}

// DefaultRetryPolicy retries twice with growing backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// Uploader writes assessment pairs to an ObjectStore under a key prefix.
type Uploader struct {
	store  ObjectStore
	prefix string
	retry  RetryPolicy

	// now is swappable in tests so key timestamps are deterministic.
	now func() time.Time
}

// New creates an Uploader. An empty prefix stores objects at the root.
func New(store ObjectStore, prefix string, retry RetryPolicy) *Uploader {
	return &Uploader{
		store:  store,
		prefix: prefix,
		retry:  retry,
		now:    time.Now,
	}
}

// keyFor derives the object key for one encoding of an assessment. Both
// encodings of a pair share the same timestamp.
func (u *Uploader) keyFor(level int, ts time.Time, ext string) string {
	name := fmt.Sprintf("level_%d_%s.%s", level, ts.UTC().Format("20060102_150405"), ext)
	if u.prefix == "" {
		return fmt.Sprintf("level_%d/%s", level, name)
	}
	return fmt.Sprintf("%s/level_%d/%s", u.prefix, level, name)
}

// Store persists both encodings of one assessment. The pair succeeds or
// fails as a unit: if the markdown write fails, no locators are returned
// even though the JSON write went through.
func (u *Uploader) Store(ctx context.Context, a *assessment.Assessment) (*assessment.Locators, error) {
	structured, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode assessment %s: %w", a.ID, err)
	}
	readable := []byte(assessment.RenderMarkdown(a))

	ts := u.now()
	meta := map[string]string{
		"assessment-id": a.ID,
		"level":         fmt.Sprintf("%d", a.Level),
		"created-at":    a.CreatedAt.Format(time.RFC3339),
	}

	structuredURI, err := u.putWithRetry(ctx, u.keyFor(a.Level, ts, "json"), structured, PutOptions{
		ContentType: "application/json",
		Metadata:    meta,
	})
	if err != nil {
		return nil, err
	}

	readableURI, err := u.putWithRetry(ctx, u.keyFor(a.Level, ts, "md"), readable, PutOptions{
		ContentType: "text/markdown",
		Metadata:    meta,
	})
	if err != nil {
		return nil, err
	}

	return &assessment.Locators{
		StructuredURI: structuredURI,
		ReadableURI:   readableURI,
	}, nil
}

// putWithRetry retries transient and unknown failures per the policy.
// Permanent failures and context cancellation fail immediately.
func (u *Uploader) putWithRetry(ctx context.Context, key string, body []byte, opts PutOptions) (string, error) {
	var lastErr error

	for attempt := 0; attempt < u.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			var delay time.Duration
			if n := len(u.retry.Backoff); n > 0 {
				delay = u.retry.Backoff[min(attempt-1, n-1)]
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		uri, err := u.store.Put(ctx, key, body, opts)
		if err == nil {
			return uri, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		var storeErr *StoreError
		if errors.As(err, &storeErr) && storeErr.Kind == KindPermanent {
			return "", err
		}
	}

	return "", &ErrRetriesExhausted{Attempts: u.retry.MaxAttempts, Err: lastErr}
}

// BatchResult reports the outcome of one assessment in a StoreAll call.
type BatchResult struct {
	Level    int
	Locators *assessment.Locators
	Err      error
}

// StoreAll persists a batch of assessments concurrently, at most
// MaxConcurrentUploads at a time. One pair failing does not stop the rest;
// results carry per-level outcomes in input order.
func (u *Uploader) StoreAll(ctx context.Context, assessments []*assessment.Assessment) []BatchResult {
	results := make([]BatchResult, len(assessments))

	sem := make(chan struct{}, MaxConcurrentUploads)
	var wg sync.WaitGroup

	for i, a := range assessments {
		wg.Add(1)
		go func(i int, a *assessment.Assessment) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			loc, err := u.Store(ctx, a)
			results[i] = BatchResult{Level: a.Level, Locators: loc, Err: err}
		}(i, a)
	}

	wg.Wait()
	return results
}
