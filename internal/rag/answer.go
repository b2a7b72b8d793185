// Package rag assembles grounded answers from hybrid retrieval hits.
// Thin consumer of the search engine; it adds normalization and citation
// shaping, never new ranking logic.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/claimlens/claimlens/internal/model"
	"github.com/claimlens/claimlens/internal/search"
)

// defaultTopK is how many supporting passages back an answer.
const defaultTopK = 3

// Citation points a reader at the document region backing the answer.
type Citation struct {
	Doc    string  `json:"doc"`
	Page   int     `json:"page"`
	Cell   string  `json:"cell"`
	LineID string  `json:"line_id"`
	Score  float64 `json:"score"`
}

// Debug exposes the retrieval internals behind an answer.
type Debug struct {
	Engine    string      `json:"engine"`
	Query     string      `json:"query"`
	DocFilter string      `json:"doc_filter,omitempty"`
	Hits      []model.Hit `json:"hits"`
}

// Answer is a citation-backed response to a free-text question.
type Answer struct {
	Answer             string     `json:"answer"`
	Citations          []Citation `json:"citations"`
	VerifiabilityScore float64    `json:"verifiability_score"`
	RetrievalSource    string     `json:"retrieval_source"`
	RetrievalDebug     Debug      `json:"retrieval_debug"`
}

// AnswerWithCitations retrieves supporting evidence for the question and
// returns a grounded answer stub with full retrieval transparency.
func AnswerWithCitations(ctx context.Context, engine *search.Engine, question, docID string, topK int) (*Answer, error) {
	if topK <= 0 {
		topK = defaultTopK
	}
	hits, err := engine.Search(ctx, question, docID, topK)
	if err != nil {
		return nil, err
	}

	answer := "No supporting passages were located in the local corpus."
	verifiability := 0.5
	if len(hits) > 0 {
		located := make([]string, len(hits))
		for i, hit := range hits {
			located[i] = fmt.Sprintf("%s line %s (page %d)", hit.DocID, hit.LineID, hit.Page)
		}
		answer = fmt.Sprintf("Top supporting passages located: %s.", strings.Join(located, "; "))
		verifiability = 0.8 + 0.05*float64(len(hits))
		if verifiability > 0.95 {
			verifiability = 0.95
		}
	}

	citations := make([]Citation, len(hits))
	for i, hit := range hits {
		citations[i] = Citation{
			Doc:    hit.DocID + ".pdf",
			Page:   hit.Page,
			Cell:   hit.Cell,
			LineID: hit.LineID,
			Score:  hit.Score,
		}
	}

	return &Answer{
		Answer:             answer,
		Citations:          citations,
		VerifiabilityScore: verifiability,
		RetrievalSource:    "hybrid_local",
		RetrievalDebug: Debug{
			Engine:    "hybrid_local",
			Query:     question,
			DocFilter: docID,
			Hits:      hits,
		},
	}, nil
}
