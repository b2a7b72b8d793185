package reconcile

import (
	"fmt"
	"strings"

	"github.com/claimlens/claimlens/internal/audit"
	"github.com/claimlens/claimlens/internal/model"
	"github.com/claimlens/claimlens/internal/risk"
	"github.com/claimlens/claimlens/internal/store"
)

// Explainer produces full explanations for documents served by a ClaimStore.
type Explainer struct {
	store store.ClaimStore
	risk  *risk.Evaluator
	audit *audit.Recorder // optional; nil disables audit recording
}

// NewExplainer creates an Explainer. recorder may be nil.
func NewExplainer(st store.ClaimStore, ev *risk.Evaluator, recorder *audit.Recorder) *Explainer {
	return &Explainer{store: st, risk: ev, audit: recorder}
}

// ExplainBill validates the document's TOTAL row, builds the five-entry
// breakdown with a per-amount calculation trace, flags every amount whose
// dependency chain contains a missing input as unverifiable, and stamps the
// payload with a deterministic audit hash.
//
// Fails with store.ErrUnknownDocument or ErrMissingTotalRow. Missing numeric
// fields never fail the explain path: they degrade to unverifiable markers.
func (e *Explainer) ExplainBill(docID string) (*model.ExplainPayload, error) {
	rows, err := e.store.GetRows(docID)
	if err != nil {
		return nil, err
	}

	totalRow, adjustmentsTotal, patientResp, warning, err := ValidateTotals(rows)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", docID, err)
	}

	source := model.Source{Page: totalRow.Page, Cell: totalRow.CellID}

	var warnings []string
	addWarning := func(message string) {
		for _, existing := range warnings {
			if existing == message {
				return
			}
		}
		warnings = append(warnings, message)
	}
	if warning != "" {
		addWarning(warning)
	}

	var unverifiableFields []string
	addUnverifiable := func(label string) {
		for _, existing := range unverifiableFields {
			if existing == label {
				return
			}
		}
		unverifiableFields = append(unverifiableFields, label)
	}

	var calcs []model.Calc
	addCalc := func(label, formula string, inputs []model.CalcInput, result *float64, unverifiable bool) {
		if unverifiable {
			addUnverifiable(label)
		}
		calcs = append(calcs, model.Calc{
			Label:        label,
			Formula:      formula,
			Inputs:       inputs,
			Result:       result,
			Unverifiable: unverifiable,
		})
	}

	makeInput := func(name string, value *float64) model.CalcInput {
		return model.CalcInput{Name: name, Value: value, Source: source}
	}

	billed := totalRow.Billed
	allowed := totalRow.Allowed
	insurerPaid := totalRow.InsurerPaid

	if billed == nil {
		addWarning("TOTAL row missing billed amount; unable to verify billed line.")
	}
	if allowed == nil {
		addWarning("TOTAL row missing allowed amount; unable to verify allowed line.")
	}
	if insurerPaid == nil {
		addWarning("TOTAL row missing insurer payment; unable to verify insurer paid line.")
	}

	var adjustmentInputs []model.CalcInput
	adjustmentsUnverifiable := false
	if len(totalRow.Adjustments) > 0 {
		for i, adj := range totalRow.Adjustments {
			adjustmentInputs = append(adjustmentInputs, makeInput(fmt.Sprintf("adjustment[%d]", i), adj.Amount))
			if adj.Amount == nil {
				adjustmentsUnverifiable = true
			}
		}
	} else {
		adjustmentInputs = append(adjustmentInputs, makeInput("adjustment_sum", model.Float(0)))
	}
	if adjustmentsTotal == nil && len(totalRow.Adjustments) > 0 {
		addWarning("Unable to sum adjustments; at least one adjustment amount was missing.")
		adjustmentsUnverifiable = true
	}

	patientInputs := []model.CalcInput{
		makeInput("TOTAL.billed", billed),
		makeInput("TOTAL.insurer_paid", insurerPaid),
		{Name: "Adjustments.total", Value: adjustmentsTotal, Source: source},
	}
	patientInputsMissing := false
	for _, in := range patientInputs {
		if in.Value == nil {
			patientInputsMissing = true
		}
	}
	if patientInputsMissing || patientResp == nil {
		addWarning("Patient responsibility computation is unverifiable due to missing input(s).")
	}

	addCalc(model.LabelAmountBilled, "TOTAL.billed",
		[]model.CalcInput{makeInput("TOTAL.billed", billed)}, billed, billed == nil)
	addCalc(model.LabelAllowedAmount, "TOTAL.allowed",
		[]model.CalcInput{makeInput("TOTAL.allowed", allowed)}, allowed, allowed == nil)
	addCalc(model.LabelInsurerPaid, "TOTAL.insurer_paid",
		[]model.CalcInput{makeInput("TOTAL.insurer_paid", insurerPaid)}, insurerPaid, insurerPaid == nil)
	addCalc(model.LabelAdjustments, "sum(adjustments.amount)",
		adjustmentInputs, adjustmentsTotal, adjustmentsUnverifiable)
	addCalc(model.LabelPatientResp, "billed - insurer_paid - adjustments_total",
		patientInputs, patientResp, patientInputsMissing || patientResp == nil)

	breakdown := []model.BreakdownEntry{
		{Label: model.LabelAmountBilled, Value: billed, Source: source},
		{Label: model.LabelAllowedAmount, Value: allowed, Source: source},
		{Label: model.LabelInsurerPaid, Value: insurerPaid, Source: source},
		{Label: model.LabelAdjustments, Value: adjustmentsTotal, Source: source},
		{Label: model.LabelPatientResp, Value: patientResp, Source: source},
	}

	grounded := 0
	for _, entry := range breakdown {
		if entry.Value != nil {
			grounded++
		}
	}
	verifiability := 0.8 + 0.04*float64(grounded)
	if verifiability > 1.0 {
		verifiability = 1.0
	}

	explainLike12 := fmt.Sprintf(
		"For document %s, the doctor billed %s. The insurer says only %s counts after rules, so they paid %s. "+
			"Adjustments of %s were applied, leaving you with %s to cover.",
		docID, model.MoneyOrUnknown(billed), model.MoneyOrUnknown(allowed), model.MoneyOrUnknown(insurerPaid),
		model.MoneyOrUnknown(adjustmentsTotal), model.MoneyOrUnknown(patientResp))

	riskFlags := e.risk.BuildRiskFlags(rows)

	takeaway := takeawaySentenceOne(totalRow, adjustmentsTotal, patientResp) + " " +
		takeawaySentenceTwo(riskFlags, unverifiableFields)

	payload := &model.ExplainPayload{
		DocID:              docID,
		VerifiabilityScore: verifiability,
		Breakdown:          breakdown,
		ExplainLike12:      explainLike12,
		Citations: []model.Citation{{
			DocID:  docID,
			Page:   totalRow.Page,
			Cell:   totalRow.CellID,
			LineID: totalRow.LineID,
		}},
		Calcs:              calcs,
		Warnings:           warnings,
		UnverifiableFields: unverifiableFields,
		Takeaway:           takeaway,
		RiskFlags:          riskFlags,
	}

	hash, err := AuditHash(payload)
	if err != nil {
		return nil, fmt.Errorf("audit hash: %w", err)
	}
	payload.AuditHash = hash

	if e.audit != nil {
		e.audit.Record("explain", payload)
	}

	return payload, nil
}

// takeawaySentenceOne states the amount owed with the most specific reason
// available: missing adjustments, then missing base fields, then the generic
// deductible/contract explanation.
func takeawaySentenceOne(totalRow *model.ClaimRow, adjustmentsTotal, patientResp *float64) string {
	owed := model.MoneyOrUnknown(patientResp)
	if adjustmentsTotal == nil && len(totalRow.Adjustments) > 0 {
		return fmt.Sprintf("You owe %s because key adjustment amounts are missing and the plan still balanced the remainder to you.", owed)
	}
	if totalRow.Billed == nil || totalRow.Allowed == nil || totalRow.InsurerPaid == nil {
		return fmt.Sprintf("You owe %s because the plan applied deductible or policy math with some numbers still missing.", owed)
	}
	return fmt.Sprintf("You owe %s because deductible and contract adjustments applied after the insurer payment.", owed)
}

// takeawaySentenceTwo cross-references the top risk flag when one exists,
// then unverifiable fields, then a generic appeal prompt.
func takeawaySentenceTwo(riskFlags []model.RiskFlag, unverifiableFields []string) string {
	if len(riskFlags) > 0 {
		flag := riskFlags[0]
		rationale := flag.Rationale
		if rationale == "" {
			rationale = flag.Label
		}
		rationale = strings.TrimRight(rationale, ".")
		return fmt.Sprintf("If you believe %s needs review, you can submit the attached appeal with supporting notes.", rationale)
	}
	if len(unverifiableFields) > 0 {
		return fmt.Sprintf("If those missing inputs (%s) get resolved, you can ask the payer to revisit the balance.",
			strings.Join(unverifiableFields, ", "))
	}
	return "If you spot a coding issue like line L3 being rebundled, you can submit the attached appeal for reconsideration."
}
