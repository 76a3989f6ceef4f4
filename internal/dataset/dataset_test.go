package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`{"name": "root", "children": []}`)
	if err := os.WriteFile(filepath.Join(dir, "sunburstData.json"), content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewStore(dir)
	data, err := store.Read("sunburst")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Fatalf("content altered:\n got %s\nwant %s", data, content)
	}
}

func TestReadMissingFile(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Read("grid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadUnknownName(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Read("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "gridData.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewStore(dir)
	_, err := store.Read("grid")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("malformed file must not read as not found")
	}
}

func TestReadIsFreshPerCall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridData.json")
	if err := os.WriteFile(path, []byte(`[1]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewStore(dir)
	if _, err := store.Read("grid"); err != nil {
		t.Fatalf("first read: %v", err)
	}
	if err := os.WriteFile(path, []byte(`[1,2]`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	data, err := store.Read("grid")
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if string(data) != `[1,2]` {
		t.Fatalf("stale content served: %s", data)
	}
}
