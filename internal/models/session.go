package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PromoState tracks the promo code application protocol. A session moves
// idle -> applying -> (applied | rejected), returning to applying only on a
// new attempt.
type PromoState string

const (
	PromoStateIdle     PromoState = "idle"
	PromoStateApplying PromoState = "applying"
	PromoStateApplied  PromoState = "applied"
	PromoStateRejected PromoState = "rejected"
)

// SessionStatus is the lifecycle state of a checkout session.
type SessionStatus string

const (
	SessionStatusOpen     SessionStatus = "open"
	SessionStatusComplete SessionStatus = "complete"
	SessionStatusExpired  SessionStatus = "expired"
)

// LineItem is one purchasable unit within a checkout session. Amounts are
// exact decimal currency values.
type LineItem struct {
	Name               string          `json:"name"`
	Category           ItemCategory    `json:"category,omitempty"`
	PriceID            string          `json:"price_id,omitempty"`
	Quantity           int64           `json:"quantity"`
	PreDiscountAmount  decimal.Decimal `json:"pre_discount_amount"`
	PostDiscountAmount decimal.Decimal `json:"post_discount_amount"`
	Currency           string          `json:"currency"`
}

// Discount is the single active discount on a session. The amount is an
// absolute currency amount in minor units; Code is the promo code string
// last successfully applied, used only for display.
type Discount struct {
	AmountMinorUnits int64  `json:"amount_minor_units"`
	Code             string `json:"code"`
}

// Amount converts the discount to a decimal currency value.
func (d Discount) Amount() decimal.Decimal {
	return decimal.New(d.AmountMinorUnits, -2)
}

// Address is a postal address as reported by the address elements.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// AddressEvent is one billing-address change event. Complete reports whether
// the address element considers the address fully entered.
type AddressEvent struct {
	Address        Address `json:"address"`
	Name           string  `json:"name,omitempty"`
	Complete       bool    `json:"complete"`
	SameAsShipping bool    `json:"same_as_shipping"`
}

// CheckoutSession is the session state owned by this service. Line items and
// the discount are refreshed by provider round-trips; the billing
// jurisdiction is owned here and holds no value until the user supplies one.
type CheckoutSession struct {
	ID              string        `json:"id"`
	PaymentIntentID string        `json:"payment_intent_id"`
	ClientSecret    string        `json:"client_secret"`
	Status          SessionStatus `json:"status"`

	PriceID   string     `json:"price_id"`
	Quantity  int64      `json:"quantity"`
	Currency  string     `json:"currency"`
	LineItems []LineItem `json:"line_items"`
	Discount  *Discount  `json:"discount,omitempty"`

	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	BillingJurisdiction *string  `json:"billing_jurisdiction,omitempty"`
	BillingAddress      *Address `json:"billing_address,omitempty"`
	ShippingAddress     *Address `json:"shipping_address,omitempty"`
	SameAsShipping      bool     `json:"same_as_shipping"`

	PromoState PromoState `json:"promo_state"`
	Submitting bool       `json:"submitting"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
