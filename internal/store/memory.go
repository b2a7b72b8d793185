package store

import (
	"fmt"

	"github.com/claimlens/claimlens/internal/model"
)

// MemoryStore is an in-memory ClaimStore. Callers that already hold parsed
// rows (or tests) inject documents directly; insertion order is corpus order.
type MemoryStore struct {
	order []string
	docs  map[string][]model.ClaimRow
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]model.ClaimRow)}
}

// Put registers a document's rows, replacing any previous rows for the id.
func (s *MemoryStore) Put(docID string, rows []model.ClaimRow) {
	if _, exists := s.docs[docID]; !exists {
		s.order = append(s.order, docID)
	}
	s.docs[docID] = rows
}

// GetRows returns the rows for one document.
func (s *MemoryStore) GetRows(docID string) ([]model.ClaimRow, error) {
	rows, ok := s.docs[docID]
	if !ok {
		return nil, fmt.Errorf("document %q: %w", docID, ErrUnknownDocument)
	}
	return rows, nil
}

// ListDocIDs returns the ids in insertion order.
func (s *MemoryStore) ListDocIDs() ([]string, error) {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids, nil
}
