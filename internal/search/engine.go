package search

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/claimlens/claimlens/internal/model"
	"github.com/claimlens/claimlens/internal/store"
)

// rrfK is the reciprocal-rank-fusion constant: each candidate accumulates
// 1/(rrfK + rank) for its 1-based rank in each non-empty ranking.
const rrfK = 60.0

// normFloor keeps cosine denominators away from zero for degenerate vectors.
const normFloor = 1e-9

// snippetLen is the hit snippet length in characters.
const snippetLen = 220

// ScoringSource identifies which ranking sources the engine fuses.
type ScoringSource string

const (
	// ScoringLexicalOnly fuses only the BM25 ranking.
	ScoringLexicalOnly ScoringSource = "lexical"
	// ScoringLexicalPlusVector fuses BM25 with embedding cosine rankings.
	ScoringLexicalPlusVector ScoringSource = "lexical+vector"
)

// Engine answers ranked free-text queries against claim-line evidence. The
// index is owned exclusively by the engine: built once via Build (or lazily
// on first Search), rebuilt only through Rebuild.
type Engine struct {
	store    store.ClaimStore
	embedder Embedder // nil selects the lexical-only strategy up front
	log      zerolog.Logger

	mu       sync.Mutex
	built    bool
	segments []Segment
	bm25     *BM25
	vectors  [][]float64
	norms    []float64
	source   ScoringSource
}

// Option configures an Engine.
type Option func(*Engine)

// WithEmbedder attaches an optional dense scoring backend. A nil embedder
// leaves the engine lexical-only.
func WithEmbedder(e Embedder) Option {
	return func(eng *Engine) { eng.embedder = e }
}

// WithLogger sets the engine logger.
func WithLogger(log zerolog.Logger) Option {
	return func(eng *Engine) { eng.log = log }
}

// NewEngine creates an engine over the given corpus. The index is not built
// until Build or the first Search.
func NewEngine(st store.ClaimStore, opts ...Option) *Engine {
	eng := &Engine{
		store:  st,
		log:    zerolog.Nop(),
		source: ScoringLexicalOnly,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// Source reports the scoring strategy in effect. Meaningful after Build.
func (e *Engine) Source() ScoringSource {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.source
}

// Build constructs the index once. Concurrent callers serialize on the
// engine mutex; only the first builds. Embedding failures of any kind
// degrade the engine to lexical-only scoring and never surface as errors.
func (e *Engine) Build(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.built {
		return nil
	}
	return e.buildLocked(ctx)
}

// Rebuild discards the current index and constructs a fresh one. This is
// the only staleness escape hatch: the engine never re-reads the corpus on
// its own.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.built = false
	e.segments = nil
	e.bm25 = nil
	e.vectors = nil
	e.norms = nil
	e.source = ScoringLexicalOnly
	return e.buildLocked(ctx)
}

// buildLocked assembles the index into local state and installs it only on
// success, so a failed build leaves the engine empty and safely retryable.
func (e *Engine) buildLocked(ctx context.Context) error {
	docIDs, err := e.store.ListDocIDs()
	if err != nil {
		return err
	}

	var segments []Segment
	for _, docID := range docIDs {
		rows, err := e.store.GetRows(docID)
		if err != nil {
			return err
		}
		for _, row := range rows {
			segments = append(segments, RenderSegment(docID, row))
		}
	}

	var bm25 *BM25
	if len(segments) > 0 {
		docs := make([][]string, len(segments))
		for i, seg := range segments {
			docs[i] = seg.Tokens
		}
		bm25 = NewBM25(docs)
	}

	e.segments = segments
	e.bm25 = bm25
	e.initVectors(ctx)
	e.built = true

	e.log.Debug().
		Int("segments", len(e.segments)).
		Str("scoring", string(e.source)).
		Msg("retrieval index built")
	return nil
}

// initVectors encodes every segment when a working embedding backend is
// present. Any failure (offline, auth, encode error) leaves the engine
// lexical-only; retrieval must never raise for this reason.
func (e *Engine) initVectors(ctx context.Context) {
	if e.embedder == nil || len(e.segments) == 0 {
		return
	}
	if !e.embedder.IsAvailable(ctx) {
		e.log.Warn().Str("backend", e.embedder.Name()).Msg("embedding backend unavailable; lexical-only scoring")
		return
	}

	texts := make([]string, len(e.segments))
	for i, seg := range e.segments {
		texts[i] = seg.Text
	}

	vectors, err := e.embedder.Embed(ctx, texts)
	if err != nil || len(vectors) != len(texts) {
		e.log.Warn().Err(err).Str("backend", e.embedder.Name()).Msg("segment encoding failed; lexical-only scoring")
		return
	}

	norms := make([]float64, len(vectors))
	for i, vec := range vectors {
		n := vectorNorm(vec)
		if n < normFloor {
			n = normFloor
		}
		norms[i] = n
	}

	e.vectors = vectors
	e.norms = norms
	e.source = ScoringLexicalPlusVector
}

// Search returns the top-k hits for the query, restricted to docID when it
// is non-empty. Never fails on content grounds: empty queries, unknown
// documents, and empty corpora all return an empty result set.
func (e *Engine) Search(ctx context.Context, query, docID string, topK int) ([]model.Hit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if err := e.Build(ctx); err != nil {
		return nil, err
	}

	// Snapshot the index under the lock; the fields are only ever replaced
	// wholesale by a build, so ranking (including the query-embedding call)
	// can run without serializing concurrent searches on remote I/O.
	e.mu.Lock()
	segments := e.segments
	bm25 := e.bm25
	vectors := e.vectors
	norms := e.norms
	e.mu.Unlock()

	if len(segments) == 0 {
		return nil, nil
	}

	var candidates []int
	for idx, seg := range segments {
		if docID == "" || seg.DocID == docID {
			candidates = append(candidates, idx)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	bm25Ranked, bm25Scores := e.lexicalRanking(bm25, query, candidates)
	vecRanked, vecScores := e.vectorRanking(ctx, vectors, norms, query, candidates)

	fused := make(map[int]float64)
	contribBM25 := make(map[int]float64)
	contribVec := make(map[int]float64)

	for rank, idx := range bm25Ranked {
		inc := 1.0 / (rrfK + float64(rank+1))
		fused[idx] += inc
		contribBM25[idx] += inc
	}
	for rank, idx := range vecRanked {
		inc := 1.0 / (rrfK + float64(rank+1))
		fused[idx] += inc
		contribVec[idx] += inc
	}

	// Defensive fallback: if fusion produced nothing while candidates
	// exist, rank by BM25 position alone so a result set is never
	// spuriously empty once the lexical step ran.
	if len(fused) == 0 {
		for rank, idx := range bm25Ranked {
			fused[idx] = 1.0 / (rrfK + float64(rank+1))
		}
	}
	if len(fused) == 0 {
		return nil, nil
	}

	// Candidates iterate in corpus order; the stable sort therefore breaks
	// score ties by original corpus position.
	ordered := make([]int, 0, len(fused))
	for _, idx := range candidates {
		if _, ok := fused[idx]; ok {
			ordered = append(ordered, idx)
		}
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		return fused[ordered[a]] > fused[ordered[b]]
	})

	if topK <= 0 {
		topK = 5
	}
	if topK > len(ordered) {
		topK = len(ordered)
	}

	hits := make([]model.Hit, 0, topK)
	for _, idx := range ordered[:topK] {
		seg := segments[idx]
		hits = append(hits, model.Hit{
			DocID:   seg.DocID,
			LineID:  seg.LineID,
			Page:    seg.Page,
			Cell:    seg.Cell,
			Snippet: snippet(seg.Text, snippetLen),
			Score:   round6(fused[idx]),
			Contrib: model.SourceScores{
				BM25:   round6(contribBM25[idx]),
				Vector: round6(contribVec[idx]),
			},
			RawScores: model.SourceScores{
				BM25:   round6(bm25Scores[idx]),
				Vector: round6(vecScores[idx]),
			},
			Fields: model.HitFields{CPT: seg.CPT, Modifier: seg.Modifier},
		})
	}
	return hits, nil
}

// lexicalRanking scores candidates with BM25 and returns them ranked
// descending, plus the raw score per candidate. An empty ranking means the
// lexical step could not run (no index or no query tokens).
func (e *Engine) lexicalRanking(bm25 *BM25, query string, candidates []int) ([]int, map[int]float64) {
	if bm25 == nil {
		return nil, nil
	}
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	scores := bm25.Scores(tokens)
	candScores := make(map[int]float64, len(candidates))
	for _, idx := range candidates {
		candScores[idx] = scores[idx]
	}

	ordered := make([]int, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(a, b int) bool {
		return candScores[ordered[a]] > candScores[ordered[b]]
	})
	return ordered, candScores
}

// vectorRanking scores candidates by cosine similarity to the query
// embedding. Contributes an empty ranking (an omission, not zero scores)
// when vector scoring is disabled or the query fails to embed.
func (e *Engine) vectorRanking(ctx context.Context, vectors [][]float64, norms []float64, query string, candidates []int) ([]int, map[int]float64) {
	if vectors == nil || e.embedder == nil {
		return nil, nil
	}

	queryVecs, err := e.embedder.Embed(ctx, []string{query})
	if err != nil || len(queryVecs) != 1 {
		e.log.Debug().Err(err).Msg("query embedding failed; vector ranking skipped")
		return nil, nil
	}
	queryVec := queryVecs[0]
	queryNorm := vectorNorm(queryVec)
	if queryNorm < normFloor {
		return nil, nil
	}

	candScores := make(map[int]float64, len(candidates))
	for _, idx := range candidates {
		candScores[idx] = dot(vectors[idx], queryVec) / (norms[idx] * queryNorm)
	}

	ordered := make([]int, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(a, b int) bool {
		return candScores[ordered[a]] > candScores[ordered[b]]
	})
	return ordered, candScores
}

func vectorNorm(vec []float64) float64 {
	sum := 0.0
	for _, v := range vec {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
