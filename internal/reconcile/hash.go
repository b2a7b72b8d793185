package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/claimlens/claimlens/internal/model"
)

// AuditHash computes the first 16 hex characters of SHA-256 over the
// canonical JSON serialization of the payload (object keys sorted, the
// audit hash field itself excluded). Tamper-evidence, not secrecy.
func AuditHash(payload *model.ExplainPayload) (string, error) {
	stripped := *payload
	stripped.AuditHash = ""

	raw, err := json.Marshal(&stripped)
	if err != nil {
		return "", err
	}

	// Round-trip through a generic map: encoding/json emits map keys in
	// sorted order, which gives the canonical form.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])[:16], nil
}
