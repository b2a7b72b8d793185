package model

// SourceScores carries a per-ranking-source pair of values for one hit,
// either raw scores or reciprocal-rank-fusion contributions.
type SourceScores struct {
	BM25   float64 `json:"bm25"`
	Vector float64 `json:"vector"`
}

// HitFields exposes the coding fields of a matched claim line.
type HitFields struct {
	CPT      string `json:"cpt,omitempty"`
	Modifier string `json:"modifier,omitempty"`
}

// Hit is one ranked retrieval result with full transparency into why it
// ranked where it did: the fused score plus per-source raw scores and
// per-source RRF contributions.
type Hit struct {
	DocID     string       `json:"doc_id"`
	LineID    string       `json:"line_id"`
	Page      int          `json:"page"`
	Cell      string       `json:"cell"`
	Snippet   string       `json:"snippet"` // First 220 characters of the segment text
	Score     float64      `json:"score"`   // Fused score, rounded to 6 decimals
	Contrib   SourceScores `json:"contrib"`
	RawScores SourceScores `json:"raw_scores"`
	Fields    HitFields    `json:"fields"`
}
