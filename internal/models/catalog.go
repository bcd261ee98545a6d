package models

// ItemCategory classifies a line item for the total calculator. Shipping
// items are excluded from the taxable base.
type ItemCategory string

const (
	ItemCategoryProduct  ItemCategory = "product"
	ItemCategoryShipping ItemCategory = "shipping"
)

// Metadata keys the catalog uses to gate and order checkout products.
const (
	MetadataCheckoutEnabled = "dumbco_website_checkout"
	MetadataCheckoutRow     = "dumbco_website_row"
	MetadataItemCategory    = "item_category"
)

// Product is a catalog product record as returned by the pricing provider.
type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Active         bool              `json:"active"`
	Description    string            `json:"description,omitempty"`
	DefaultPriceID string            `json:"default_price,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Category reads the explicit item category from product metadata. Empty
// when the catalog does not carry one; callers fall back to name matching.
func (p Product) Category() ItemCategory {
	switch p.Metadata[MetadataItemCategory] {
	case string(ItemCategoryShipping):
		return ItemCategoryShipping
	case string(ItemCategoryProduct):
		return ItemCategoryProduct
	default:
		return ""
	}
}

// CheckoutEnabled reports whether the product is gated into the website
// checkout flow.
func (p Product) CheckoutEnabled() bool {
	return p.Metadata[MetadataCheckoutEnabled] == "true"
}

// Recurring describes the billing interval of a recurring price.
type Recurring struct {
	Interval      string `json:"interval"`
	IntervalCount int64  `json:"interval_count"`
}

// Price is a catalog price record embedding its parent product.
type Price struct {
	ID         string     `json:"id"`
	Active     bool       `json:"active"`
	Currency   string     `json:"currency"`
	UnitAmount int64      `json:"unit_amount"`
	Type       string     `json:"type"`
	Recurring  *Recurring `json:"recurring,omitempty"`
	Product    Product    `json:"product"`
}

// PricesResponse is the list payload served by GET /prices.
type PricesResponse struct {
	Data    []Price `json:"data"`
	HasMore bool    `json:"has_more"`
}

// ProductsResponse is the list payload served by GET /products.
type ProductsResponse struct {
	Data    []Product `json:"data"`
	HasMore bool      `json:"has_more"`
}
