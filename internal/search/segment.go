// Package search implements hybrid lexical+vector retrieval over claim-line
// evidence: an Okapi BM25 index fused with optional embedding cosine
// similarity via reciprocal-rank fusion.
package search

import (
	"fmt"
	"strings"

	"github.com/claimlens/claimlens/internal/model"
)

// Segment is one retrievable unit: a claim row rendered to a canonical text
// string, with its tokenization and source identifiers.
type Segment struct {
	DocID    string
	LineID   string
	Page     int
	Cell     string
	CPT      string
	Modifier string
	Text     string
	Tokens   []string
}

// RenderSegment builds the canonical text for a claim row. The rendering is
// part of the retrieval contract: identical rows always produce identical
// text, so index builds are deterministic.
func RenderSegment(docID string, row model.ClaimRow) Segment {
	parts := []string{
		fmt.Sprintf("Line %s on page %d (cell %s)", row.LineID, row.Page, row.CellID),
	}
	if row.CPT != "" {
		parts = append(parts, "CPT "+row.CPT)
	}
	if row.Modifier != "" {
		parts = append(parts, "modifier "+row.Modifier)
	}
	parts = append(parts,
		fmt.Sprintf("billed %.2f", model.Deref(row.Billed, 0)),
		fmt.Sprintf("allowed %.2f", model.Deref(row.Allowed, 0)),
		fmt.Sprintf("insurer paid %.2f", model.Deref(row.InsurerPaid, 0)),
		fmt.Sprintf("patient responsibility %.2f", model.Deref(row.PatientResp, 0)),
	)
	adjustments := 0.0
	for _, adj := range row.Adjustments {
		adjustments += model.Deref(adj.Amount, 0)
	}
	parts = append(parts, fmt.Sprintf("adjustments %.2f", adjustments))

	text := strings.Join(parts, ", ")
	return Segment{
		DocID:    docID,
		LineID:   row.LineID,
		Page:     row.Page,
		Cell:     row.CellID,
		CPT:      row.CPT,
		Modifier: row.Modifier,
		Text:     text,
		Tokens:   Tokenize(text),
	}
}

// Tokenize lowercases the text and splits on runs of non-alphanumeric
// characters, dropping empty tokens.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

// snippet returns the first n characters of text.
func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
