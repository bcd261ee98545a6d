package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dumbco/checkout-service/internal/models"
)

// taxRates maps a normalized billing jurisdiction to its tax rate. This is a
// closed rule table: jurisdictions not listed are untaxed.
var taxRates = map[string]decimal.Decimal{
	"DC":                   decimal.New(6, -2),
	"DISTRICT OF COLUMBIA": decimal.New(6, -2),
}

// shippingNameHints classify a line item as shipping when the catalog does
// not carry an explicit category. Matching is case-insensitive substring
// matching against the item name.
var shippingNameHints = []string{"shipping", "usps", "ground"}

// TaxRateFor returns the tax rate for a billing jurisdiction, or zero when
// the jurisdiction is unknown or not taxed.
func TaxRateFor(jurisdiction *string) decimal.Decimal {
	if jurisdiction == nil {
		return decimal.Zero
	}
	normalized := strings.ToUpper(strings.TrimSpace(*jurisdiction))
	if rate, ok := taxRates[normalized]; ok {
		return rate
	}
	return decimal.Zero
}

// IsShippingItem reports whether a line item is a shipping line. An explicit
// catalog category wins; the name heuristic is only a fallback for items the
// catalog has not categorized.
func IsShippingItem(item models.LineItem) bool {
	switch item.Category {
	case models.ItemCategoryShipping:
		return true
	case models.ItemCategoryProduct:
		return false
	}

	name := strings.ToLower(item.Name)
	for _, hint := range shippingNameHints {
		if strings.Contains(name, hint) {
			return true
		}
	}
	return false
}

// ComputeOrderTotals derives the displayed price breakdown from a session
// snapshot. It is a pure function of its inputs and safe to re-invoke on
// every session or jurisdiction change.
//
// Tax is levied on the pre-discount sum of product items only: discounts do
// not reduce the taxable base, and shipping is never taxed. The displayed
// line amounts are pre-discount; the discount surfaces as one aggregate line.
func ComputeOrderTotals(items []models.LineItem, discount *models.Discount, jurisdiction *string) models.OrderTotals {
	totals := models.OrderTotals{
		Subtotal:    decimal.Zero,
		TaxableBase: decimal.Zero,
		Tax:         decimal.Zero,
		Shipping:    decimal.Zero,
		Discount:    decimal.Zero,
		GrandTotal:  decimal.Zero,
		Lines:       make([]models.TotalLine, 0, len(items)),
	}

	for _, item := range items {
		if totals.Currency == "" {
			totals.Currency = item.Currency
		}

		totals.Subtotal = totals.Subtotal.Add(item.PreDiscountAmount)
		if IsShippingItem(item) {
			totals.Shipping = totals.Shipping.Add(item.PreDiscountAmount)
		} else {
			totals.TaxableBase = totals.TaxableBase.Add(item.PreDiscountAmount)
		}

		totals.Lines = append(totals.Lines, models.TotalLine{
			Name:   item.Name,
			Amount: item.PreDiscountAmount,
		})
	}

	totals.Tax = totals.TaxableBase.Mul(TaxRateFor(jurisdiction)).Round(2)

	if discount != nil {
		totals.Discount = discount.Amount()
	}

	totals.GrandTotal = totals.Subtotal.Sub(totals.Discount).Add(totals.Tax)

	return totals
}
