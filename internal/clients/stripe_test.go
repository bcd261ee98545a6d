package clients

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	stripe "github.com/stripe/stripe-go/v78"

	"github.com/dumbco/checkout-service/internal/errors"
)

func TestTranslate(t *testing.T) {
	p := &StripeProvider{}

	tests := []struct {
		name        string
		err         error
		isProvider  bool
		expectedMsg string
	}{
		{
			name: "card declined is a provider rejection",
			err: &stripe.Error{
				HTTPStatusCode: http.StatusPaymentRequired,
				Code:           stripe.ErrorCodeCardDeclined,
				Msg:            "Your card was declined.",
			},
			isProvider:  true,
			expectedMsg: "Your card was declined.",
		},
		{
			name: "invalid request is a provider rejection",
			err: &stripe.Error{
				HTTPStatusCode: http.StatusBadRequest,
				Msg:            "No such payment_intent: 'pi_missing'",
			},
			isProvider:  true,
			expectedMsg: "No such payment_intent: 'pi_missing'",
		},
		{
			name: "stripe 5xx is transport",
			err: &stripe.Error{
				HTTPStatusCode: http.StatusServiceUnavailable,
				Msg:            "temporarily unavailable",
			},
			isProvider: false,
		},
		{
			name:       "network failure is transport",
			err:        fmt.Errorf("dial tcp: connection refused"),
			isProvider: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			translated := p.translate(tt.err)

			var pErr *errors.ProviderError
			var tErr *errors.TransportError

			if tt.isProvider {
				if !stderrors.As(translated, &pErr) {
					t.Fatalf("Expected provider error, got %v", translated)
				}
				if pErr.Message != tt.expectedMsg {
					t.Errorf("Expected message %q, got %q", tt.expectedMsg, pErr.Message)
				}
				return
			}

			if !stderrors.As(translated, &tErr) {
				t.Fatalf("Expected transport error, got %v", translated)
			}
			if tErr.Service != "stripe" {
				t.Errorf("Expected service stripe, got %q", tErr.Service)
			}
		})
	}
}

func TestConvertPrice(t *testing.T) {
	sp := &stripe.Price{
		ID:         "price_1",
		Active:     true,
		Currency:   stripe.CurrencyUSD,
		UnitAmount: 12000,
		Type:       stripe.PriceTypeOneTime,
		Product: &stripe.Product{
			ID:     "prod_1",
			Name:   "Dumbphone I",
			Active: true,
			Metadata: map[string]string{
				"dumbco_website_checkout": "true",
			},
		},
	}

	price := convertPrice(sp)

	if price.UnitAmount != 12000 {
		t.Errorf("Expected unit amount 12000, got %d", price.UnitAmount)
	}
	if price.Currency != "usd" {
		t.Errorf("Expected currency usd, got %q", price.Currency)
	}
	if !price.Product.CheckoutEnabled() {
		t.Error("Expected product metadata carried through conversion")
	}
}

func TestConvertProduct_NilSafe(t *testing.T) {
	product := convertProduct(nil)
	if product.ID != "" {
		t.Errorf("Expected zero product for nil input, got %+v", product)
	}
}
