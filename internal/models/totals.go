package models

import "github.com/shopspring/decimal"

// TotalLine is one displayed line in the order summary. The amount shown is
// always the pre-discount amount; discounts surface only as the aggregate
// Discount field of OrderTotals.
type TotalLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// OrderTotals is the derived price breakdown for a session. It is never
// stored; it is always recomputed from the session's line items, discount,
// and billing jurisdiction.
type OrderTotals struct {
	Currency    string          `json:"currency"`
	Lines       []TotalLine     `json:"lines"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxableBase decimal.Decimal `json:"taxable_base"`
	Tax         decimal.Decimal `json:"tax"`
	Shipping    decimal.Decimal `json:"shipping"`
	Discount    decimal.Decimal `json:"discount"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// GrandTotalMinorUnits returns the grand total in minor currency units, the
// form the payment provider expects for intent amounts.
func (t OrderTotals) GrandTotalMinorUnits() int64 {
	return t.GrandTotal.Shift(2).IntPart()
}
