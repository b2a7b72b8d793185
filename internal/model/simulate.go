package model

// SimulationDetails itemizes how the expected responsibility was reached.
type SimulationDetails struct {
	DeductibleApplied  float64 `json:"deductible_applied"`
	CoinsuranceApplied float64 `json:"coinsurance_applied"`
	OOPCap             float64 `json:"oop_cap"` // Equal to ExpectedPatientResp when no cap applied
}

// SimulationResult is the projected patient responsibility under a basic
// deductible/coinsurance/out-of-pocket model.
type SimulationResult struct {
	AllowedTotal        float64           `json:"allowed_total"`
	ExpectedPatientResp float64           `json:"expected_patient_resp"`
	Details             SimulationDetails `json:"details"`
}
