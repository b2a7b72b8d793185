package search

import "math"

// Okapi BM25 parameters, standard library defaults; no custom tuning.
const (
	bm25K1      = 1.5
	bm25B       = 0.75
	bm25Epsilon = 0.25
)

// BM25 is an Okapi BM25 index over tokenized segments. IDF values are
// precomputed at construction; negative IDFs (terms in more than half the
// corpus) are floored at epsilon times the average IDF so common terms
// still contribute a small positive weight.
type BM25 struct {
	termFreqs []map[string]int
	docLens   []float64
	avgDocLen float64
	idf       map[string]float64
}

// NewBM25 builds the index from per-segment token lists.
func NewBM25(docs [][]string) *BM25 {
	n := len(docs)
	index := &BM25{
		termFreqs: make([]map[string]int, n),
		docLens:   make([]float64, n),
		idf:       make(map[string]float64),
	}

	docFreq := make(map[string]int)
	totalLen := 0.0
	for i, tokens := range docs {
		freqs := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freqs[tok]++
		}
		index.termFreqs[i] = freqs
		index.docLens[i] = float64(len(tokens))
		totalLen += float64(len(tokens))
		for tok := range freqs {
			docFreq[tok]++
		}
	}
	if n > 0 {
		index.avgDocLen = totalLen / float64(n)
	}

	idfSum := 0.0
	var negative []string
	for tok, df := range docFreq {
		idf := math.Log(float64(n)-float64(df)+0.5) - math.Log(float64(df)+0.5)
		index.idf[tok] = idf
		idfSum += idf
		if idf < 0 {
			negative = append(negative, tok)
		}
	}
	if len(docFreq) > 0 {
		floor := bm25Epsilon * idfSum / float64(len(docFreq))
		for _, tok := range negative {
			index.idf[tok] = floor
		}
	}

	return index
}

// Scores returns the BM25 score of every indexed segment for the query
// tokens, in segment order.
func (b *BM25) Scores(query []string) []float64 {
	scores := make([]float64, len(b.termFreqs))
	for _, tok := range query {
		idf, ok := b.idf[tok]
		if !ok {
			continue
		}
		for i, freqs := range b.termFreqs {
			tf := float64(freqs[tok])
			if tf == 0 {
				continue
			}
			norm := 1 - bm25B + bm25B*b.docLens[i]/b.avgDocLen
			scores[i] += idf * tf * (bm25K1 + 1) / (tf + bm25K1*norm)
		}
	}
	return scores
}
