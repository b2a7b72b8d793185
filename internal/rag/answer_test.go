package rag

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/claimlens/claimlens/internal/model"
	"github.com/claimlens/claimlens/internal/search"
	"github.com/claimlens/claimlens/internal/store"
)

func ragEngine() *search.Engine {
	st := store.NewMemoryStore()
	st.Put("doc-a", []model.ClaimRow{
		{LineID: "L1", Page: 1, CellID: "A1", CPT: "99213",
			Billed: model.Float(200), Allowed: model.Float(160), InsurerPaid: model.Float(120)},
		{LineID: "TOTAL", Page: 2, CellID: "T1",
			Billed: model.Float(200), Allowed: model.Float(160), InsurerPaid: model.Float(120)},
	})
	return search.NewEngine(st)
}

func TestAnswerWithCitations_Grounded(t *testing.T) {
	answer, err := AnswerWithCitations(context.Background(), ragEngine(), "why was only 160 allowed", "", 0)
	if err != nil {
		t.Fatalf("AnswerWithCitations failed: %v", err)
	}

	if !strings.HasPrefix(answer.Answer, "Top supporting passages located:") {
		t.Errorf("answer = %q, want the located-passages summary", answer.Answer)
	}
	if len(answer.Citations) == 0 {
		t.Fatal("expected citations")
	}
	if len(answer.Citations) > defaultTopK {
		t.Errorf("citations = %d, want at most %d by default", len(answer.Citations), defaultTopK)
	}
	for _, citation := range answer.Citations {
		if !strings.HasSuffix(citation.Doc, ".pdf") {
			t.Errorf("citation doc = %q, want a .pdf reference", citation.Doc)
		}
		if citation.Score <= 0 {
			t.Errorf("citation score = %v, want > 0", citation.Score)
		}
	}

	want := 0.8 + 0.05*float64(len(answer.Citations))
	if want > 0.95 {
		want = 0.95
	}
	if math.Abs(answer.VerifiabilityScore-want) > 1e-9 {
		t.Errorf("verifiability = %v, want %v", answer.VerifiabilityScore, want)
	}
	if answer.RetrievalSource != "hybrid_local" {
		t.Errorf("retrieval source = %q", answer.RetrievalSource)
	}
	if answer.RetrievalDebug.Query != "why was only 160 allowed" {
		t.Errorf("debug query = %q", answer.RetrievalDebug.Query)
	}
	if len(answer.RetrievalDebug.Hits) != len(answer.Citations) {
		t.Errorf("debug hits = %d, citations = %d; counts should match",
			len(answer.RetrievalDebug.Hits), len(answer.Citations))
	}
}

func TestAnswerWithCitations_NoEvidence(t *testing.T) {
	answer, err := AnswerWithCitations(context.Background(), ragEngine(), "anything", "doc-missing", 3)
	if err != nil {
		t.Fatalf("AnswerWithCitations failed: %v", err)
	}
	if answer.Answer != "No supporting passages were located in the local corpus." {
		t.Errorf("answer = %q", answer.Answer)
	}
	if answer.VerifiabilityScore != 0.5 {
		t.Errorf("verifiability = %v, want 0.5 without evidence", answer.VerifiabilityScore)
	}
	if len(answer.Citations) != 0 {
		t.Errorf("expected no citations, got %v", answer.Citations)
	}
}

func TestAnswerWithCitations_TopKOverride(t *testing.T) {
	answer, err := AnswerWithCitations(context.Background(), ragEngine(), "billed", "", 1)
	if err != nil {
		t.Fatalf("AnswerWithCitations failed: %v", err)
	}
	if len(answer.Citations) != 1 {
		t.Errorf("citations = %d, want 1", len(answer.Citations))
	}
}
