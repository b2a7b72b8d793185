package model

// RiskSeverity grades a heuristic billing finding.
type RiskSeverity string

const (
	RiskSeverityLow    RiskSeverity = "low"
	RiskSeverityMedium RiskSeverity = "medium"
	RiskSeverityHigh   RiskSeverity = "high"
)

// RiskFlag is one heuristic billing finding over a document's claim rows.
type RiskFlag struct {
	Label     string       `json:"label"`     // e.g. "Upcoding risk"
	Severity  RiskSeverity `json:"severity"`
	Rationale string       `json:"rationale"` // Human-readable reason, used for dedup together with Label
}
