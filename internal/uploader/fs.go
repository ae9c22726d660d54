package uploader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FSStore is an ObjectStore backed by the local filesystem. Objects land
// under Root and URIs use the file scheme. Metadata is written to a JSON
// sidecar next to the object.
type FSStore struct {
	root string
}

// NewFSStore creates the root directory if needed.
func NewFSStore(root string) (*FSStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, classifyFSError("", err)
	}
	return &FSStore{root: abs}, nil
}

func (s *FSStore) Put(ctx context.Context, key string, body []byte, opts PutOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", classifyFSError(key, err)
	}

	// Write-then-rename so a crash never leaves a partial object behind.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return "", classifyFSError(key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", classifyFSError(key, err)
	}

	if len(opts.Metadata) > 0 || opts.ContentType != "" {
		if err := s.writeSidecar(path, opts); err != nil {
			return "", classifyFSError(key, err)
		}
	}

	return "file://" + filepath.ToSlash(path), nil
}

func (s *FSStore) writeSidecar(path string, opts PutOptions) error {
	sidecar := struct {
		ContentType string            `json:"content_type,omitempty"`
		Metadata    map[string]string `json:"metadata,omitempty"`
	}{opts.ContentType, opts.Metadata}

	data, err := json.Marshal(sidecar)
	if err != nil {
		return err
	}
	return os.WriteFile(path+".meta", data, 0o644)
}

// classifyFSError maps filesystem errors to StoreError kinds. Permission
// problems cannot clear on retry; everything else is left unknown so the
// retry policy gets a chance.
func classifyFSError(key string, err error) *StoreError {
	kind := KindUnknown
	switch {
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermanent
	case errors.Is(err, fs.ErrNotExist):
		kind = KindPermanent
	}
	return &StoreError{Kind: kind, Key: key, Err: err}
}
