package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/claimlens/claimlens/internal/model"
)

// JSONStore reads claim rows from a JSON file mapping document id to an
// ordered list of rows. Per-document results are memoized so repeated
// explain/search calls do not re-read and re-decode the file.
type JSONStore struct {
	path  string
	cache *gocache.Cache
}

// NewJSONStore creates a store backed by the given file. The file is read
// lazily on first access, not at construction.
func NewJSONStore(path string, cacheTTL time.Duration) *JSONStore {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &JSONStore{
		path:  path,
		cache: gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// GetRows returns the ordered claim rows for one document.
func (s *JSONStore) GetRows(docID string) ([]model.ClaimRow, error) {
	if cached, found := s.cache.Get("rows:" + docID); found {
		return cached.([]model.ClaimRow), nil
	}

	corpus, err := s.load()
	if err != nil {
		return nil, err
	}

	rows, ok := corpus[docID]
	if !ok {
		return nil, fmt.Errorf("document %q: %w", docID, ErrUnknownDocument)
	}

	s.cache.SetDefault("rows:"+docID, rows)
	return rows, nil
}

// ListDocIDs returns every document id in the corpus, preserving the order
// in which documents appear in the source file. File order is the corpus
// order used for retrieval tie-breaking, so it must be stable.
func (s *JSONStore) ListDocIDs() ([]string, error) {
	if cached, found := s.cache.Get("doc_ids"); found {
		return cached.([]string), nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read claim corpus: %w", err)
	}

	ids, err := topLevelKeys(data)
	if err != nil {
		return nil, fmt.Errorf("parse claim corpus: %w", err)
	}

	s.cache.SetDefault("doc_ids", ids)
	return ids, nil
}

func (s *JSONStore) load() (map[string][]model.ClaimRow, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read claim corpus: %w", err)
	}

	var corpus map[string][]model.ClaimRow
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("parse claim corpus: %w", err)
	}
	return corpus, nil
}

// topLevelKeys extracts the top-level object keys in document order.
// encoding/json maps are unordered, so the key sequence is recovered from
// the token stream instead.
func topLevelKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected top-level object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		keys = append(keys, key)

		// Skip the value for this key.
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
