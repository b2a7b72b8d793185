package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/claimlens/claimlens/internal/model"
)

const corpusFixture = `{
  "zeta-doc": [
    {"line_id": "L1", "page": 1, "cell_id": "A1", "cpt": "99213",
     "billed": 200.0, "allowed": 160.0, "insurer_paid": 120.0},
    {"line_id": "TOTAL", "page": 2, "cell_id": "T1",
     "billed": 200.0, "allowed": 160.0, "insurer_paid": 120.0,
     "adjustments": [{"type": "contractual", "amount": 40.0}],
     "patient_resp": 40.0}
  ],
  "alpha-doc": [
    {"line_id": "L1", "page": 1, "cell_id": "B1",
     "billed": 95.0, "allowed": null, "insurer_paid": 40.0,
     "adjustments": [{"type": "other"}]}
  ]
}`

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestJSONStore_GetRows(t *testing.T) {
	st := NewJSONStore(writeCorpus(t, corpusFixture), time.Minute)

	rows, err := st.GetRows("zeta-doc")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].LineID != "L1" || rows[1].LineID != "TOTAL" {
		t.Errorf("row order = [%s, %s], want file order [L1, TOTAL]", rows[0].LineID, rows[1].LineID)
	}
	if rows[1].PatientResp == nil || *rows[1].PatientResp != 40 {
		t.Errorf("patient resp = %v, want 40", rows[1].PatientResp)
	}
	if len(rows[1].Adjustments) != 1 || rows[1].Adjustments[0].Type != "contractual" {
		t.Errorf("adjustments = %v", rows[1].Adjustments)
	}
}

func TestJSONStore_NullAmountsDecodeToNil(t *testing.T) {
	st := NewJSONStore(writeCorpus(t, corpusFixture), time.Minute)

	rows, err := st.GetRows("alpha-doc")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if rows[0].Allowed != nil {
		t.Errorf("allowed = %v, want nil for JSON null", *rows[0].Allowed)
	}
	if rows[0].Adjustments[0].Amount != nil {
		t.Errorf("adjustment amount = %v, want nil when omitted", *rows[0].Adjustments[0].Amount)
	}
}

func TestJSONStore_ListDocIDsPreservesFileOrder(t *testing.T) {
	st := NewJSONStore(writeCorpus(t, corpusFixture), time.Minute)

	ids, err := st.ListDocIDs()
	if err != nil {
		t.Fatalf("ListDocIDs failed: %v", err)
	}
	// zeta before alpha: file order, not lexicographic.
	want := []string{"zeta-doc", "alpha-doc"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("doc ids = %v, want %v", ids, want)
	}
}

func TestJSONStore_UnknownDocument(t *testing.T) {
	st := NewJSONStore(writeCorpus(t, corpusFixture), time.Minute)

	_, err := st.GetRows("missing-doc")
	if !errors.Is(err, ErrUnknownDocument) {
		t.Errorf("expected ErrUnknownDocument, got %v", err)
	}
}

func TestJSONStore_MissingFile(t *testing.T) {
	st := NewJSONStore(filepath.Join(t.TempDir(), "absent.json"), time.Minute)

	if _, err := st.GetRows("any"); err == nil {
		t.Error("expected an error for a missing corpus file")
	}
	if _, err := st.ListDocIDs(); err == nil {
		t.Error("expected an error for a missing corpus file")
	}
}

func TestJSONStore_MalformedCorpus(t *testing.T) {
	st := NewJSONStore(writeCorpus(t, `["not", "an", "object"]`), time.Minute)

	if _, err := st.ListDocIDs(); err == nil {
		t.Error("expected an error for a non-object corpus")
	}
}

func TestJSONStore_CachesRows(t *testing.T) {
	path := writeCorpus(t, corpusFixture)
	st := NewJSONStore(path, time.Minute)

	if _, err := st.GetRows("zeta-doc"); err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	// Removing the backing file proves the second read is served from cache.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove fixture: %v", err)
	}
	rows, err := st.GetRows("zeta-doc")
	if err != nil {
		t.Fatalf("cached GetRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("cached rows = %d, want 2", len(rows))
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	st := NewMemoryStore()
	st.Put("doc-b", []model.ClaimRow{{LineID: "L1"}})
	st.Put("doc-a", []model.ClaimRow{{LineID: "L1"}})
	st.Put("doc-b", []model.ClaimRow{{LineID: "L2"}})

	ids, err := st.ListDocIDs()
	if err != nil {
		t.Fatalf("ListDocIDs failed: %v", err)
	}
	if want := []string{"doc-b", "doc-a"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("doc ids = %v, want insertion order %v", ids, want)
	}

	rows, err := st.GetRows("doc-b")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 1 || rows[0].LineID != "L2" {
		t.Errorf("re-Put should replace rows, got %v", rows)
	}

	if _, err := st.GetRows("doc-c"); !errors.Is(err, ErrUnknownDocument) {
		t.Errorf("expected ErrUnknownDocument, got %v", err)
	}
}
