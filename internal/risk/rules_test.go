package risk

import (
	"strings"
	"testing"

	"github.com/claimlens/claimlens/internal/model"
)

func TestUpcodingRisk_HighAcuityAboveThreshold(t *testing.T) {
	ev := NewEvaluator(model.RiskConfig{})
	rows := []model.ClaimRow{{
		LineID:  "L1",
		CPT:     "99215",
		Billed:  model.Float(1800),
		Allowed: model.Float(1600),
	}}

	flags := ev.BuildRiskFlags(rows)
	if len(flags) != 1 {
		t.Fatalf("expected exactly one flag, got %d: %v", len(flags), flags)
	}
	flag := flags[0]
	if flag.Label != "Upcoding risk" {
		t.Errorf("label = %q, want \"Upcoding risk\"", flag.Label)
	}
	if flag.Severity != model.RiskSeverityHigh {
		t.Errorf("severity = %q, want high", flag.Severity)
	}
	if !strings.Contains(flag.Rationale, "99215") || !strings.Contains(flag.Rationale, "$1,600.00") {
		t.Errorf("rationale should cite the CPT and amount, got %q", flag.Rationale)
	}
}

func TestUpcodingRisk_BelowThreshold(t *testing.T) {
	ev := NewEvaluator(model.RiskConfig{})
	rows := []model.ClaimRow{{
		LineID:  "L1",
		CPT:     "99215",
		Billed:  model.Float(1400),
		Allowed: model.Float(1200),
	}}

	if flags := ev.BuildRiskFlags(rows); len(flags) != 0 {
		t.Errorf("expected no flags for allowed within threshold, got %v", flags)
	}
}

func TestUpcodingRisk_NonHighAcuityCPT(t *testing.T) {
	ev := NewEvaluator(model.RiskConfig{})
	rows := []model.ClaimRow{{
		LineID:  "L1",
		CPT:     "99213",
		Allowed: model.Float(2000),
	}}

	if flags := ev.BuildRiskFlags(rows); len(flags) != 0 {
		t.Errorf("expected no flags for a non-high-acuity code, got %v", flags)
	}
}

func TestUpcodingRisk_ConfiguredThreshold(t *testing.T) {
	ev := NewEvaluator(model.RiskConfig{UpcodingAllowed: 2000})
	rows := []model.ClaimRow{{
		LineID:  "L1",
		CPT:     "99215",
		Allowed: model.Float(1600),
	}}

	if flags := ev.BuildRiskFlags(rows); len(flags) != 0 {
		t.Errorf("raised threshold should suppress the flag, got %v", flags)
	}
}

func TestDuplicateChargeRisk_DistinctModifiers(t *testing.T) {
	ev := NewEvaluator(model.RiskConfig{})
	rows := []model.ClaimRow{
		{LineID: "L1", CPT: "99213", Modifier: "25", Billed: model.Float(200)},
		{LineID: "L2", CPT: "99213", Modifier: "59", Billed: model.Float(200)},
	}

	flags := ev.BuildRiskFlags(rows)
	if len(flags) != 1 {
		t.Fatalf("expected exactly one deduplicated flag, got %d: %v", len(flags), flags)
	}
	flag := flags[0]
	if flag.Label != "Duplicate charge risk" {
		t.Errorf("label = %q, want \"Duplicate charge risk\"", flag.Label)
	}
	if flag.Severity != model.RiskSeverityMedium {
		t.Errorf("severity = %q, want medium", flag.Severity)
	}
	if !strings.Contains(flag.Rationale, "25, 59") {
		t.Errorf("rationale should list modifiers sorted, got %q", flag.Rationale)
	}
}

func TestDuplicateChargeRisk_SameModifierTwice(t *testing.T) {
	ev := NewEvaluator(model.RiskConfig{})
	rows := []model.ClaimRow{
		{LineID: "L1", CPT: "99213", Modifier: "25"},
		{LineID: "L2", CPT: "99213", Modifier: "25"},
	}

	if flags := ev.BuildRiskFlags(rows); len(flags) != 0 {
		t.Errorf("one distinct modifier should not flag, got %v", flags)
	}
}

func TestDuplicateChargeRisk_EmptyModifierCountsAsDistinct(t *testing.T) {
	ev := NewEvaluator(model.RiskConfig{})
	rows := []model.ClaimRow{
		{LineID: "L1", CPT: "99213"},
		{LineID: "L2", CPT: "99213", Modifier: "59"},
	}

	flags := ev.BuildRiskFlags(rows)
	if len(flags) != 1 {
		t.Fatalf("no-modifier and 59 are two distinct values, got %v", flags)
	}
}

func TestMissingAdjustmentRisk_LargeResidual(t *testing.T) {
	ev := NewEvaluator(model.RiskConfig{})
	rows := []model.ClaimRow{{
		LineID:      "L1",
		Billed:      model.Float(1000),
		InsurerPaid: model.Float(500),
		PatientResp: model.Float(200),
	}}

	flags := ev.BuildRiskFlags(rows)
	if len(flags) != 1 {
		t.Fatalf("expected exactly one flag, got %d: %v", len(flags), flags)
	}
	flag := flags[0]
	if flag.Label != "Missing adjustment risk" {
		t.Errorf("label = %q, want \"Missing adjustment risk\"", flag.Label)
	}
	if !strings.Contains(flag.Rationale, "L1") || !strings.Contains(flag.Rationale, "$300.00") {
		t.Errorf("rationale should cite the line and residual, got %q", flag.Rationale)
	}
}

func TestMissingAdjustmentRisk_ResidualAtThreshold(t *testing.T) {
	ev := NewEvaluator(model.RiskConfig{})
	rows := []model.ClaimRow{{
		LineID:      "L1",
		Billed:      model.Float(1000),
		InsurerPaid: model.Float(500),
		PatientResp: model.Float(400),
	}}

	if flags := ev.BuildRiskFlags(rows); len(flags) != 0 {
		t.Errorf("residual equal to the threshold should not flag, got %v", flags)
	}
}

func TestMissingAdjustmentRisk_RecomputesAbsentPatientResp(t *testing.T) {
	// With patient responsibility absent the residual recomputes to zero;
	// nothing is unexplained.
	ev := NewEvaluator(model.RiskConfig{})
	rows := []model.ClaimRow{{
		LineID:      "L1",
		Billed:      model.Float(1000),
		InsurerPaid: model.Float(500),
	}}

	if flags := ev.BuildRiskFlags(rows); len(flags) != 0 {
		t.Errorf("expected no flags when responsibility balances by recomputation, got %v", flags)
	}
}

func TestBuildRiskFlags_DeduplicatesAndPreservesOrder(t *testing.T) {
	ev := NewEvaluator(model.RiskConfig{})
	rows := []model.ClaimRow{
		{LineID: "L1", CPT: "99215", Allowed: model.Float(1600), Modifier: "25"},
		{LineID: "L2", CPT: "99215", Allowed: model.Float(1600), Modifier: "59"},
	}

	flags := ev.BuildRiskFlags(rows)
	// Two identical upcoding rationales collapse to one; the duplicate-charge
	// flag follows in pass order.
	if len(flags) != 2 {
		t.Fatalf("expected 2 flags after dedup, got %d: %v", len(flags), flags)
	}
	if flags[0].Label != "Upcoding risk" || flags[1].Label != "Duplicate charge risk" {
		t.Errorf("flag order = [%q, %q], want upcoding then duplicate", flags[0].Label, flags[1].Label)
	}
}
