package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dumbco/checkout-service/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func jurisdiction(s string) *string {
	return &s
}

func phoneItems() []models.LineItem {
	return []models.LineItem{
		{
			Name:               "Dumbphone I",
			PreDiscountAmount:  d("120.00"),
			PostDiscountAmount: d("120.00"),
			Currency:           "usd",
		},
		{
			Name:               "USPS Ground Advantage Shipping",
			PreDiscountAmount:  d("8.00"),
			PostDiscountAmount: d("8.00"),
			Currency:           "usd",
		},
	}
}

func TestComputeOrderTotals_DCWithDiscount(t *testing.T) {
	discount := &models.Discount{AmountMinorUnits: 1000, Code: "SAVE10"}

	totals := ComputeOrderTotals(phoneItems(), discount, jurisdiction("DC"))

	if !totals.TaxableBase.Equal(d("120.00")) {
		t.Errorf("Expected taxable base 120.00, got %s", totals.TaxableBase)
	}
	if !totals.Tax.Equal(d("7.20")) {
		t.Errorf("Expected tax 7.20, got %s", totals.Tax)
	}
	if !totals.Subtotal.Equal(d("128.00")) {
		t.Errorf("Expected subtotal 128.00, got %s", totals.Subtotal)
	}
	if !totals.Shipping.Equal(d("8.00")) {
		t.Errorf("Expected shipping 8.00, got %s", totals.Shipping)
	}
	if !totals.Discount.Equal(d("10.00")) {
		t.Errorf("Expected discount 10.00, got %s", totals.Discount)
	}
	if !totals.GrandTotal.Equal(d("125.20")) {
		t.Errorf("Expected grand total 125.20, got %s", totals.GrandTotal)
	}
}

func TestComputeOrderTotals_DiscountDoesNotReduceTaxableBase(t *testing.T) {
	without := ComputeOrderTotals(phoneItems(), nil, jurisdiction("DC"))
	with := ComputeOrderTotals(phoneItems(), &models.Discount{AmountMinorUnits: 5000}, jurisdiction("DC"))

	if !without.Tax.Equal(with.Tax) {
		t.Errorf("Expected tax unchanged by discount, got %s without and %s with", without.Tax, with.Tax)
	}
	if !with.TaxableBase.Equal(d("120.00")) {
		t.Errorf("Expected taxable base 120.00, got %s", with.TaxableBase)
	}
}

func TestComputeOrderTotals_Jurisdictions(t *testing.T) {
	tests := []struct {
		name         string
		jurisdiction *string
		expectedTax  string
	}{
		{"upper DC", jurisdiction("DC"), "7.20"},
		{"lower dc", jurisdiction("dc"), "7.20"},
		{"district of columbia", jurisdiction("District of Columbia"), "7.20"},
		{"padded", jurisdiction("  DC  "), "7.20"},
		{"maryland", jurisdiction("MD"), "0"},
		{"virginia", jurisdiction("VA"), "0"},
		{"empty", jurisdiction(""), "0"},
		{"no jurisdiction yet", nil, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeOrderTotals(phoneItems(), nil, tt.jurisdiction)
			if !totals.Tax.Equal(d(tt.expectedTax)) {
				t.Errorf("Expected tax %s, got %s", tt.expectedTax, totals.Tax)
			}
		})
	}
}

func TestComputeOrderTotals_GrandTotalIdentity(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.LineItem
		discount     *models.Discount
		jurisdiction *string
	}{
		{"empty order", nil, nil, nil},
		{"no discount no tax", phoneItems(), nil, jurisdiction("NY")},
		{"discount and tax", phoneItems(), &models.Discount{AmountMinorUnits: 2500}, jurisdiction("DC")},
		{"discount only", phoneItems(), &models.Discount{AmountMinorUnits: 800}, nil},
		{
			"multiple products",
			[]models.LineItem{
				{Name: "Dumbphone I", PreDiscountAmount: d("120.00")},
				{Name: "Dumbphone II", PreDiscountAmount: d("199.99")},
				{Name: "USPS Priority Shipping", PreDiscountAmount: d("12.50")},
			},
			&models.Discount{AmountMinorUnits: 1500},
			jurisdiction("DC"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeOrderTotals(tt.items, tt.discount, tt.jurisdiction)

			expected := totals.Subtotal.Sub(totals.Discount).Add(totals.Tax)
			if !totals.GrandTotal.Equal(expected) {
				t.Errorf("Expected grand total %s, got %s", expected, totals.GrandTotal)
			}
		})
	}
}

func TestComputeOrderTotals_Idempotent(t *testing.T) {
	discount := &models.Discount{AmountMinorUnits: 1000}

	first := ComputeOrderTotals(phoneItems(), discount, jurisdiction("DC"))
	second := ComputeOrderTotals(phoneItems(), discount, jurisdiction("DC"))

	if !first.GrandTotal.Equal(second.GrandTotal) || !first.Tax.Equal(second.Tax) {
		t.Error("Expected identical totals across recomputation")
	}
}

func TestComputeOrderTotals_LinesShowPreDiscountAmounts(t *testing.T) {
	items := phoneItems()
	items[0].PostDiscountAmount = d("110.00")

	totals := ComputeOrderTotals(items, &models.Discount{AmountMinorUnits: 1000}, nil)

	if len(totals.Lines) != 2 {
		t.Fatalf("Expected 2 display lines, got %d", len(totals.Lines))
	}
	if !totals.Lines[0].Amount.Equal(d("120.00")) {
		t.Errorf("Expected displayed amount 120.00, got %s", totals.Lines[0].Amount)
	}
}

func TestIsShippingItem(t *testing.T) {
	tests := []struct {
		name     string
		item     models.LineItem
		expected bool
	}{
		{"usps name", models.LineItem{Name: "USPS Ground Advantage Shipping"}, true},
		{"shipping name", models.LineItem{Name: "Express Shipping"}, true},
		{"ground name", models.LineItem{Name: "Ground Delivery"}, true},
		{"case folded", models.LineItem{Name: "usps ground advantage"}, true},
		{"product name", models.LineItem{Name: "Dumbphone I"}, false},
		{"explicit shipping category", models.LineItem{Name: "Flat Rate", Category: models.ItemCategoryShipping}, true},
		{"explicit product category wins over name", models.LineItem{Name: "Ground Coffee Subscription", Category: models.ItemCategoryProduct}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsShippingItem(tt.item); got != tt.expected {
				t.Errorf("IsShippingItem(%q) = %v, want %v", tt.item.Name, got, tt.expected)
			}
		})
	}
}

func TestTaxRateFor(t *testing.T) {
	if rate := TaxRateFor(jurisdiction("DC")); !rate.Equal(d("0.06")) {
		t.Errorf("Expected DC rate 0.06, got %s", rate)
	}
	if rate := TaxRateFor(jurisdiction("CA")); !rate.IsZero() {
		t.Errorf("Expected zero rate for CA, got %s", rate)
	}
	if rate := TaxRateFor(nil); !rate.IsZero() {
		t.Errorf("Expected zero rate for nil jurisdiction, got %s", rate)
	}
}
