package reconcile

import (
	"testing"

	"github.com/claimlens/claimlens/internal/model"
)

func TestAuditHash_ExcludesItself(t *testing.T) {
	payload := &model.ExplainPayload{
		DocID:              "doc-001",
		VerifiabilityScore: 1.0,
		Takeaway:           "You owe $150.00 because deductible and contract adjustments applied after the insurer payment.",
	}

	before, err := AuditHash(payload)
	if err != nil {
		t.Fatalf("AuditHash failed: %v", err)
	}

	payload.AuditHash = before
	after, err := AuditHash(payload)
	if err != nil {
		t.Fatalf("AuditHash failed: %v", err)
	}
	if before != after {
		t.Errorf("hash changed once stamped: %q vs %q", before, after)
	}
}

func TestAuditHash_SensitiveToContent(t *testing.T) {
	a := &model.ExplainPayload{DocID: "doc-001"}
	b := &model.ExplainPayload{DocID: "doc-002"}

	hashA, err := AuditHash(a)
	if err != nil {
		t.Fatalf("AuditHash failed: %v", err)
	}
	hashB, err := AuditHash(b)
	if err != nil {
		t.Fatalf("AuditHash failed: %v", err)
	}
	if hashA == hashB {
		t.Error("distinct payloads should not collide on the short hash")
	}
}
