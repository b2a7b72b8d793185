// Package policy projects patient responsibility under a basic
// deductible/coinsurance/out-of-pocket model.
package policy

import "github.com/claimlens/claimlens/internal/model"

// Simulate estimates the patient's responsibility for the given rows.
//
// The coinsurance rate is clamped to [0, 1]. A negative oopRemaining is a
// defensive sentinel meaning "no cap". Pure function, no failure modes
// beyond what the caller feeds in.
func Simulate(rows []model.ClaimRow, deductibleRemaining, coinsurance, oopRemaining float64) model.SimulationResult {
	allowedTotal := 0.0
	for _, row := range rows {
		allowedTotal += model.Deref(row.Allowed, 0)
	}

	deductible := deductibleRemaining
	if deductible < 0 {
		deductible = 0
	}
	deductibleApplied := allowedTotal
	if deductible < deductibleApplied {
		deductibleApplied = deductible
	}

	remaining := allowedTotal - deductibleApplied
	if remaining < 0 {
		remaining = 0
	}

	rate := coinsurance
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	coinsuranceApplied := remaining * rate

	expected := deductibleApplied + coinsuranceApplied
	oopCap := expected
	if oopRemaining >= 0 && oopRemaining < expected {
		oopCap = oopRemaining
		expected = oopRemaining
	}

	return model.SimulationResult{
		AllowedTotal:        allowedTotal,
		ExpectedPatientResp: expected,
		Details: model.SimulationDetails{
			DeductibleApplied:  deductibleApplied,
			CoinsuranceApplied: coinsuranceApplied,
			OOPCap:             oopCap,
		},
	}
}
