package model

import "strings"

// TotalLineID is the reserved sentinel line id for the row aggregating a document.
const TotalLineID = "TOTAL"

// Adjustment represents an individual adjustment applied to a claim line.
// A nil Amount denotes a known-but-unquantified adjustment.
type Adjustment struct {
	Type   string   `json:"type"`             // Adjustment category (e.g., "contractual", "sequestration")
	Amount *float64 `json:"amount,omitempty"` // nil when the amount is unknown
}

// ClaimRow is one structured line item of an Explanation of Benefits document.
type ClaimRow struct {
	LineID      string       `json:"line_id"`            // Unique within a document; "TOTAL" is reserved
	Page        int          `json:"page"`               // 1-based source page
	CellID      string       `json:"cell_id"`            // Opaque source locator (table cell)
	CPT         string       `json:"cpt,omitempty"`      // Procedure code, optional
	Modifier    string       `json:"modifier,omitempty"` // Procedure modifier, optional
	Billed      *float64     `json:"billed"`
	Allowed     *float64     `json:"allowed"`
	InsurerPaid *float64     `json:"insurer_paid"`
	Adjustments []Adjustment `json:"adjustments,omitempty"`
	PatientResp *float64     `json:"patient_resp,omitempty"` // Stated value; authoritative unless it conflicts with the recomputed one
}

// IsTotal reports whether the row is the document's TOTAL sentinel row.
func (r ClaimRow) IsTotal() bool {
	return strings.EqualFold(r.LineID, TotalLineID)
}

// AdjustmentsTotal sums the row's adjustment amounts. The sum is nil when any
// single amount is unknown: a sum cannot be claimed exact if a component is
// missing.
func (r ClaimRow) AdjustmentsTotal() *float64 {
	total := 0.0
	for _, adj := range r.Adjustments {
		if adj.Amount == nil {
			return nil
		}
		total += *adj.Amount
	}
	return &total
}

// Float returns a pointer to v. Convenience for building rows literally.
func Float(v float64) *float64 {
	return &v
}

// Deref returns the pointed-to value, or fallback when p is nil.
func Deref(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}
