package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a recorded checkout order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFailed    OrderStatus = "failed"
)

// Order is the durable record of a confirmed checkout, written when the
// session is handed off to the payment provider and updated from payment
// events.
type Order struct {
	ID              string      `json:"id"`
	SessionID       string      `json:"session_id"`
	PaymentIntentID string      `json:"payment_intent_id"`
	Status          OrderStatus `json:"status"`

	Email string     `json:"email"`
	Phone string     `json:"phone"`
	Items []LineItem `json:"items"`

	ShippingAddress *Address `json:"shipping_address,omitempty"`
	BillingAddress  *Address `json:"billing_address,omitempty"`

	Currency string          `json:"currency"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
