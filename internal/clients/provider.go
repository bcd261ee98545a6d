package clients

import (
	"context"

	"github.com/dumbco/checkout-service/internal/models"
)

// PaymentIntent is the provider-side payment state for a session.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

// Promotion is a provider promotion code resolved from a user-entered string.
// AmountOff is in minor currency units; PercentOff is set instead for
// percentage coupons.
type Promotion struct {
	ID         string
	Code       string
	Currency   string
	AmountOff  int64
	PercentOff float64
}

// CreateIntentRequest carries what the provider needs to open a payment
// intent for a new checkout session.
type CreateIntentRequest struct {
	AmountMinorUnits int64
	Currency         string
	Description      string
	SessionID        string
}

// CheckoutProvider is the hosted payment provider behind the checkout flow.
// Session-scoped operations (email, shipping, promotion, confirm) are
// delegated here; rejections come back as *errors.ProviderError with the
// provider's message intact.
type CheckoutProvider interface {
	ListPrices(ctx context.Context) ([]models.Price, error)
	ListProducts(ctx context.Context) ([]models.Product, error)

	CreatePaymentIntent(ctx context.Context, req CreateIntentRequest) (*PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)
	UpdateAmount(ctx context.Context, intentID string, amountMinorUnits int64) error
	UpdateEmail(ctx context.Context, intentID, email string) error
	UpdateShipping(ctx context.Context, intentID, name string, addr models.Address) error
	ConfirmPaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error)

	LookupPromotion(ctx context.Context, code string) (*Promotion, error)
}
