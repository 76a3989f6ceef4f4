package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound indicates the requested dataset file is absent or unreadable.
var ErrNotFound = errors.New("dataset not found")

// ErrMalformed indicates the dataset file exists but is not valid JSON.
var ErrMalformed = errors.New("dataset is not valid JSON")

// files maps logical dataset names to their backing files in the data
// directory. The two names are fixed at the source level.
var files = map[string]string{
	"sunburst": "sunburstData.json",
	"grid":     "gridData.json",
}

// Store reads chart datasets from a fixed directory. Every Read hits the
// filesystem; content is served verbatim with no caching or transformation.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Read loads the named dataset and returns its raw JSON bytes. An unknown
// name or an unreadable file yields ErrNotFound; a file that is not valid
// JSON yields ErrMalformed.
func (s *Store) Read(name string) (json.RawMessage, error) {
	file, ok := files[name]
	if !ok {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, file))
	if err != nil {
		return nil, ErrNotFound
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("dataset %s: %w", name, ErrMalformed)
	}
	return data, nil
}
