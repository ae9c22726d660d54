package kb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFSRetriever(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "phonics.md",
		"Module 1: Phonics basics covers letter sounds and blending.\n\nChildren learn decoding through guided practice.")
	writeDoc(t, dir, "fluency.txt",
		"Module 2: Reading fluency develops through repeated reading and phrasing work.")
	writeDoc(t, dir, "ignored.pdf", "binary-ish content that must not be indexed")

	r, err := NewFSRetriever(dir)
	if err != nil {
		t.Fatalf("NewFSRetriever: %v", err)
	}

	passages, err := r.Retrieve(context.Background(), "phonics letter sounds", 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(passages) == 0 {
		t.Fatal("expected at least one passage")
	}

	top := passages[0]
	if top.Citation.Filename != "phonics.md" {
		t.Errorf("top result from %q, want phonics.md", top.Citation.Filename)
	}
	if !strings.HasPrefix(top.Citation.URI, "file://") {
		t.Errorf("URI %q missing file scheme", top.Citation.URI)
	}

	for _, p := range passages {
		if p.Citation.Filename == "ignored.pdf" {
			t.Error("non-text file was indexed")
		}
	}
}

func TestFSRetrieverMaxResults(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "doc.md",
		"reading one\n\nreading two\n\nreading three\n\nreading four")

	r, err := NewFSRetriever(dir)
	if err != nil {
		t.Fatalf("NewFSRetriever: %v", err)
	}

	passages, err := r.Retrieve(context.Background(), "reading", 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(passages) > 2 {
		t.Errorf("got %d passages, want at most 2", len(passages))
	}
}

func TestFSRetrieverMissingRoot(t *testing.T) {
	_, err := NewFSRetriever(filepath.Join(t.TempDir(), "does-not-exist"))
	var notFound *ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *ErrNotFound, got %v", err)
	}
}
