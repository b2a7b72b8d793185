package model

import "testing"

func TestMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{42.5, "$42.50"},
		{999.99, "$999.99"},
		{1000, "$1,000.00"},
		{1234.56, "$1,234.56"},
		{1234567.89, "$1,234,567.89"},
		{-1234.56, "$-1,234.56"},
		{-50, "$-50.00"},
	}
	for _, tc := range cases {
		if got := Money(tc.in); got != tc.want {
			t.Errorf("Money(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMoneyOrUnknown(t *testing.T) {
	if got := MoneyOrUnknown(nil); got != "an unknown amount" {
		t.Errorf("MoneyOrUnknown(nil) = %q", got)
	}
	if got := MoneyOrUnknown(Float(1500)); got != "$1,500.00" {
		t.Errorf("MoneyOrUnknown(1500) = %q", got)
	}
}

func TestClaimRowIsTotal(t *testing.T) {
	for _, lineID := range []string{"TOTAL", "total", "Total"} {
		if !(ClaimRow{LineID: lineID}).IsTotal() {
			t.Errorf("%q should match the TOTAL sentinel", lineID)
		}
	}
	if (ClaimRow{LineID: "L1"}).IsTotal() {
		t.Error("L1 should not match the TOTAL sentinel")
	}
}

func TestAdjustmentsTotal(t *testing.T) {
	row := ClaimRow{Adjustments: []Adjustment{
		{Type: "contractual", Amount: Float(100)},
		{Type: "sequestration", Amount: Float(50)},
	}}
	if total := row.AdjustmentsTotal(); total == nil || *total != 150 {
		t.Errorf("AdjustmentsTotal = %v, want 150", total)
	}

	row.Adjustments = append(row.Adjustments, Adjustment{Type: "other"})
	if total := row.AdjustmentsTotal(); total != nil {
		t.Errorf("AdjustmentsTotal = %v, want nil when any amount is unknown", *total)
	}

	empty := ClaimRow{}
	if total := empty.AdjustmentsTotal(); total == nil || *total != 0 {
		t.Errorf("AdjustmentsTotal on empty list = %v, want 0", total)
	}
}

func TestDeref(t *testing.T) {
	if got := Deref(nil, 7); got != 7 {
		t.Errorf("Deref(nil, 7) = %v", got)
	}
	if got := Deref(Float(3), 7); got != 3 {
		t.Errorf("Deref(3, 7) = %v", got)
	}
}
