package store

import (
	"errors"

	"github.com/claimlens/claimlens/internal/model"
)

// ErrUnknownDocument signals that no claim rows exist for the requested id.
var ErrUnknownDocument = errors.New("unknown document id")

// ClaimStore supplies structured claim rows. The core treats the store as a
// read-only external collaborator: it never mutates rows and never models
// how they were extracted or persisted.
type ClaimStore interface {
	// GetRows returns the ordered claim rows for one document.
	// Fails with ErrUnknownDocument when the id is not in the corpus.
	GetRows(docID string) ([]model.ClaimRow, error)

	// ListDocIDs returns every document id in the corpus, in a stable order.
	ListDocIDs() ([]string, error)
}
