// Package risk evaluates heuristic billing-risk rules over claim rows.
// The rules are transparent pattern checks, not clinical judgments.
package risk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/claimlens/claimlens/internal/model"
)

// Evaluator applies the three heuristic rule passes with configurable
// thresholds.
type Evaluator struct {
	cfg model.RiskConfig
}

// NewEvaluator creates an evaluator. Zero-value thresholds fall back to the
// defaults so a partially-populated config stays usable.
func NewEvaluator(cfg model.RiskConfig) *Evaluator {
	defaults := model.DefaultConfig().Risk
	if len(cfg.HighAcuityCPTs) == 0 {
		cfg.HighAcuityCPTs = defaults.HighAcuityCPTs
	}
	if cfg.UpcodingAllowed <= 0 {
		cfg.UpcodingAllowed = defaults.UpcodingAllowed
	}
	if cfg.ResidualThreshold <= 0 {
		cfg.ResidualThreshold = defaults.ResidualThreshold
	}
	return &Evaluator{cfg: cfg}
}

// BuildRiskFlags runs the upcoding, duplicate-charge, and missing-adjustment
// passes in that order, deduplicated by (label, rationale) preserving
// first-seen order.
func (e *Evaluator) BuildRiskFlags(rows []model.ClaimRow) []model.RiskFlag {
	var flags []model.RiskFlag
	flags = append(flags, e.upcodingRisk(rows)...)
	flags = append(flags, e.duplicateChargeRisk(rows)...)
	flags = append(flags, e.missingAdjustmentRisk(rows)...)

	seen := make(map[[2]string]bool, len(flags))
	unique := flags[:0]
	for _, flag := range flags {
		key := [2]string{flag.Label, flag.Rationale}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, flag)
	}
	return unique
}

// upcodingRisk flags high-acuity evaluation/management codes whose allowed
// amount exceeds the configured threshold.
func (e *Evaluator) upcodingRisk(rows []model.ClaimRow) []model.RiskFlag {
	var flags []model.RiskFlag
	for _, row := range rows {
		if !e.isHighAcuity(row.CPT) {
			continue
		}
		if row.Allowed == nil || *row.Allowed <= e.cfg.UpcodingAllowed {
			continue
		}
		flags = append(flags, model.RiskFlag{
			Label:     "Upcoding risk",
			Severity:  model.RiskSeverityHigh,
			Rationale: fmt.Sprintf("CPT %s allowed amount %s looks unusually high.", row.CPT, model.Money(*row.Allowed)),
		})
	}
	return flags
}

// duplicateChargeRisk flags a CPT code billed under more than one distinct
// modifier value. The empty/no-modifier case counts as one distinct value.
func (e *Evaluator) duplicateChargeRisk(rows []model.ClaimRow) []model.RiskFlag {
	order := make([]string, 0, len(rows))
	modifiers := make(map[string]map[string]bool)
	for _, row := range rows {
		if row.CPT == "" {
			continue
		}
		if _, exists := modifiers[row.CPT]; !exists {
			modifiers[row.CPT] = make(map[string]bool)
			order = append(order, row.CPT)
		}
		modifiers[row.CPT][row.Modifier] = true
	}

	var flags []model.RiskFlag
	for _, cpt := range order {
		if len(modifiers[cpt]) <= 1 {
			continue
		}
		distinct := make([]string, 0, len(modifiers[cpt]))
		for mod := range modifiers[cpt] {
			distinct = append(distinct, mod)
		}
		sort.Strings(distinct)
		flags = append(flags, model.RiskFlag{
			Label:     "Duplicate charge risk",
			Severity:  model.RiskSeverityMedium,
			Rationale: fmt.Sprintf("CPT %s billed with multiple modifiers: %s.", cpt, strings.Join(distinct, ", ")),
		})
	}
	return flags
}

// missingAdjustmentRisk flags rows whose unexplained residual
// (billed - insurer_paid - adjustments - patient_resp) exceeds the
// configured threshold, implying undisclosed contractual write-offs.
func (e *Evaluator) missingAdjustmentRisk(rows []model.ClaimRow) []model.RiskFlag {
	var flags []model.RiskFlag
	for _, row := range rows {
		adjustments := safeAdjustmentsSum(row)
		residual := model.Deref(row.Billed, 0) - model.Deref(row.InsurerPaid, 0) - adjustments - patientResp(row)
		if residual <= e.cfg.ResidualThreshold {
			continue
		}
		flags = append(flags, model.RiskFlag{
			Label:    "Missing adjustment risk",
			Severity: model.RiskSeverityMedium,
			Rationale: fmt.Sprintf("Line %s residual %s exceeds recorded adjustments; consider contractual allowances.",
				row.LineID, model.Money(residual)),
		})
	}
	return flags
}

func (e *Evaluator) isHighAcuity(cpt string) bool {
	for _, candidate := range e.cfg.HighAcuityCPTs {
		if candidate == cpt {
			return true
		}
	}
	return false
}

// safeAdjustmentsSum sums adjustment amounts treating unknown components as
// zero. Risk heuristics work on best-effort numbers, unlike reconciliation.
func safeAdjustmentsSum(row model.ClaimRow) float64 {
	total := 0.0
	for _, adj := range row.Adjustments {
		total += model.Deref(adj.Amount, 0)
	}
	return total
}

// patientResp returns the stated responsibility, or recomputes it from
// components when absent.
func patientResp(row model.ClaimRow) float64 {
	if row.PatientResp != nil {
		return *row.PatientResp
	}
	return model.Deref(row.Billed, 0) - model.Deref(row.InsurerPaid, 0) - safeAdjustmentsSum(row)
}
