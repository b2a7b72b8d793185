package model

// Source locates a value in the scanned document.
type Source struct {
	Page int    `json:"page"` // 1-based page number
	Cell string `json:"cell"` // Table cell locator
}

// BreakdownEntry is one of the five fixed labeled amounts in an explanation.
type BreakdownEntry struct {
	Label  string   `json:"label"`
	Value  *float64 `json:"value"` // nil when the amount could not be grounded
	Source Source   `json:"source"`
}

// CalcInput is a named operand of a calculation, with its source citation.
type CalcInput struct {
	Name   string   `json:"name"`
	Value  *float64 `json:"value"`
	Source Source   `json:"source"`
}

// Calc is the computation trace for one breakdown amount.
// Every number in the breakdown is derived by exactly one Calc.
type Calc struct {
	Label        string      `json:"label"`
	Formula      string      `json:"formula"` // Human-readable formula, e.g. "billed - insurer_paid - adjustments_total"
	Inputs       []CalcInput `json:"inputs"`
	Result       *float64    `json:"result"`
	Unverifiable bool        `json:"unverifiable"` // True when the dependency chain contains a missing input
}

// Citation points at the document region backing a statement.
type Citation struct {
	DocID  string `json:"doc_id"`
	Page   int    `json:"page"`
	Cell   string `json:"cell"`
	LineID string `json:"line_id"`
}

// Fixed breakdown labels, in presentation order.
const (
	LabelAmountBilled  = "Amount Billed"
	LabelAllowedAmount = "Allowed Amount"
	LabelInsurerPaid   = "Insurer Paid"
	LabelAdjustments   = "Adjustments"
	LabelPatientResp   = "Patient Responsibility"
)

// ExplainPayload is the full explanation produced for one document.
// Derived, never persisted.
type ExplainPayload struct {
	DocID              string           `json:"doc_id"`
	VerifiabilityScore float64          `json:"verifiability_score"` // In [0.8, 1.0], grows with grounded breakdown entries
	Breakdown          []BreakdownEntry `json:"breakdown"`
	ExplainLike12      string           `json:"explain_like_12"`
	Citations          []Citation       `json:"citations"`
	Calcs              []Calc           `json:"calcs"`
	Warnings           []string         `json:"warnings"`
	UnverifiableFields []string         `json:"unverifiable_fields"`
	Takeaway           string           `json:"takeaway"` // Deterministic two-sentence summary
	RiskFlags          []RiskFlag       `json:"risk_flags"`
	AuditHash          string           `json:"audit_hash,omitempty"` // First 16 hex chars of SHA-256 over the canonical payload
}
