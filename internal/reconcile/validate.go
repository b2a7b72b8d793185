// Package reconcile validates claim math and produces citation-backed
// explanations of how a document's amounts reconcile.
package reconcile

import (
	"errors"
	"math"

	"github.com/claimlens/claimlens/internal/model"
)

// ErrMissingTotalRow signals a document without the reserved TOTAL row.
// Such a document cannot be explained; the error is fatal to the request.
var ErrMissingTotalRow = errors.New("document does not contain a TOTAL row")

// Tolerance is the maximum absolute difference at which a stated amount and
// its recomputed counterpart are still considered to agree.
const Tolerance = 0.01

// WarnTotalInconsistent is emitted when the stated patient responsibility
// disagrees with the recomputed value and the recomputed one wins.
const WarnTotalInconsistent = "TOTAL row inconsistent; recomputed from components."

// ValidateTotals locates the TOTAL row and reconciles its stated patient
// responsibility against the value recomputed from components.
//
// adjustmentsTotal is nil when any single adjustment amount is unknown.
// patientResp is the canonical value: the stated one when the recomputed
// value is unavailable or they agree within Tolerance, otherwise the
// recomputed value. warning is non-empty only in the disagreement case.
func ValidateTotals(rows []model.ClaimRow) (totalRow *model.ClaimRow, adjustmentsTotal, patientResp *float64, warning string, err error) {
	for i := range rows {
		if rows[i].IsTotal() {
			totalRow = &rows[i]
			break
		}
	}
	if totalRow == nil {
		return nil, nil, nil, "", ErrMissingTotalRow
	}

	adjustmentsTotal = totalRow.AdjustmentsTotal()

	var recomputed *float64
	if totalRow.Billed != nil && totalRow.InsurerPaid != nil && adjustmentsTotal != nil {
		v := *totalRow.Billed - *totalRow.InsurerPaid - *adjustmentsTotal
		recomputed = &v
	}

	provided := totalRow.PatientResp
	if provided == nil {
		provided = recomputed
	}

	if recomputed != nil && provided != nil && math.Abs(*recomputed-*provided) > Tolerance {
		return totalRow, adjustmentsTotal, recomputed, WarnTotalInconsistent, nil
	}
	return totalRow, adjustmentsTotal, provided, "", nil
}
