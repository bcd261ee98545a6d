package clients

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/price"
	"github.com/stripe/stripe-go/v78/product"
	"github.com/stripe/stripe-go/v78/promotioncode"
	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/config"
	"github.com/dumbco/checkout-service/internal/errors"
	"github.com/dumbco/checkout-service/internal/models"
)

// Ensure StripeProvider implements CheckoutProvider.
var _ CheckoutProvider = (*StripeProvider)(nil)

type stripeIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Update(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Confirm(id string, params *stripe.PaymentIntentConfirmParams) (*stripe.PaymentIntent, error)
}

type stripePriceAPI interface {
	List(params *stripe.PriceListParams) *price.Iter
}

type stripeProductAPI interface {
	List(params *stripe.ProductListParams) *product.Iter
}

type stripePromotionCodeAPI interface {
	List(params *stripe.PromotionCodeListParams) *promotioncode.Iter
}

// StripeProvider implements CheckoutProvider using the Stripe API.
type StripeProvider struct {
	intents    stripeIntentAPI
	prices     stripePriceAPI
	products   stripeProductAPI
	promoCodes stripePromotionCodeAPI
	timeout    time.Duration
	logger     *zap.Logger
}

// NewStripeProvider creates a Stripe-backed checkout provider.
func NewStripeProvider(cfg config.StripeConfig, logger *zap.Logger) *StripeProvider {
	sc := client.New(cfg.APIKey, stripe.NewBackends(&http.Client{
		Timeout: cfg.Timeout,
	}))

	return &StripeProvider{
		intents:    sc.PaymentIntents,
		prices:     sc.Prices,
		products:   sc.Products,
		promoCodes: sc.PromotionCodes,
		timeout:    cfg.Timeout,
		logger:     logger,
	}
}

// ListPrices fetches price records with their parent product expanded.
// Active filtering is left to the catalog layer.
func (p *StripeProvider) ListPrices(ctx context.Context) ([]models.Price, error) {
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripe.PriceListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(100)
	params.AddExpand("data.product")

	var prices []models.Price
	iter := p.prices.List(params)
	for iter.Next() {
		prices = append(prices, convertPrice(iter.Price()))
	}
	if err := iter.Err(); err != nil {
		p.logger.Error("Failed to list prices", zap.Error(err))
		return nil, p.translate(err)
	}

	p.logger.Debug("Listed prices", zap.Int("count", len(prices)))
	return prices, nil
}

// ListProducts fetches product records from the catalog.
func (p *StripeProvider) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripe.ProductListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(100)

	var products []models.Product
	iter := p.products.List(params)
	for iter.Next() {
		products = append(products, convertProduct(iter.Product()))
	}
	if err := iter.Err(); err != nil {
		p.logger.Error("Failed to list products", zap.Error(err))
		return nil, p.translate(err)
	}

	return products, nil
}

// CreatePaymentIntent opens a payment intent for a new checkout session.
func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, req CreateIntentRequest) (*PaymentIntent, error) {
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinorUnits),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.SessionID != "" {
		params.AddMetadata("checkout_session_id", req.SessionID)
	}

	intent, err := p.intents.New(params)
	if err != nil {
		p.logger.Error("Failed to create payment intent",
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
		return nil, p.translate(err)
	}

	p.logger.Info("Payment intent created",
		zap.String("intent_id", intent.ID),
		zap.Int64("amount", req.AmountMinorUnits),
	)

	return convertIntent(intent), nil
}

// GetPaymentIntent retrieves the current provider state of an intent.
func (p *StripeProvider) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := p.intents.Get(id, params)
	if err != nil {
		return nil, p.translate(err)
	}

	return convertIntent(intent), nil
}

// UpdateAmount sets the intent amount to the latest computed grand total.
func (p *StripeProvider) UpdateAmount(ctx context.Context, intentID string, amountMinorUnits int64) error {
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount: stripe.Int64(amountMinorUnits),
	}
	params.Context = ctx

	if _, err := p.intents.Update(intentID, params); err != nil {
		p.logger.Error("Failed to update intent amount",
			zap.String("intent_id", intentID),
			zap.Error(err),
		)
		return p.translate(err)
	}

	return nil
}

// UpdateEmail submits the customer email to the provider. Provider
// rejections carry the provider's own message.
func (p *StripeProvider) UpdateEmail(ctx context.Context, intentID, email string) error {
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		ReceiptEmail: stripe.String(email),
	}
	params.Context = ctx

	if _, err := p.intents.Update(intentID, params); err != nil {
		return p.translate(err)
	}

	return nil
}

// UpdateShipping sets the shipping address on the intent.
func (p *StripeProvider) UpdateShipping(ctx context.Context, intentID, name string, addr models.Address) error {
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	if name == "" {
		name = "Checkout Customer"
	}

	params := &stripe.PaymentIntentParams{
		Shipping: &stripe.ShippingDetailsParams{
			Name: stripe.String(name),
			Address: &stripe.AddressParams{
				Line1:      stripe.String(addr.Line1),
				Line2:      stripe.String(addr.Line2),
				City:       stripe.String(addr.City),
				State:      stripe.String(addr.State),
				PostalCode: stripe.String(addr.PostalCode),
				Country:    stripe.String(addr.Country),
			},
		},
	}
	params.Context = ctx

	if _, err := p.intents.Update(intentID, params); err != nil {
		p.logger.Error("Failed to update shipping address",
			zap.String("intent_id", intentID),
			zap.Error(err),
		)
		return p.translate(err)
	}

	p.logger.Info("Shipping address updated", zap.String("intent_id", intentID))
	return nil
}

// ConfirmPaymentIntent hands the intent off for confirmation.
func (p *StripeProvider) ConfirmPaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error) {
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripe.PaymentIntentConfirmParams{}
	params.Context = ctx

	intent, err := p.intents.Confirm(intentID, params)
	if err != nil {
		p.logger.Error("Failed to confirm payment intent",
			zap.String("intent_id", intentID),
			zap.Error(err),
		)
		return nil, p.translate(err)
	}

	p.logger.Info("Payment intent confirmed",
		zap.String("intent_id", intent.ID),
		zap.String("status", string(intent.Status)),
	)

	return convertIntent(intent), nil
}

// LookupPromotion resolves a user-entered promotion code. Unknown or
// inactive codes come back as a provider rejection, not a transport error.
func (p *StripeProvider) LookupPromotion(ctx context.Context, code string) (*Promotion, error) {
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripe.PromotionCodeListParams{
		Code:   stripe.String(code),
		Active: stripe.Bool(true),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := p.promoCodes.List(params)
	for iter.Next() {
		pc := iter.PromotionCode()
		if pc.Coupon == nil || !pc.Coupon.Valid {
			break
		}
		return &Promotion{
			ID:         pc.ID,
			Code:       pc.Code,
			Currency:   string(pc.Coupon.Currency),
			AmountOff:  pc.Coupon.AmountOff,
			PercentOff: pc.Coupon.PercentOff,
		}, nil
	}
	if err := iter.Err(); err != nil {
		return nil, p.translate(err)
	}

	return nil, errors.NewProviderError("invalid_promotion_code",
		"This promotion code is invalid or has expired.")
}

func (p *StripeProvider) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.timeout)
}

// translate maps Stripe errors onto the service error taxonomy: structured
// provider rejections keep their message; everything else is transport.
func (p *StripeProvider) translate(err error) error {
	var sErr *stripe.Error
	if stderrors.As(err, &sErr) {
		if sErr.HTTPStatusCode < http.StatusInternalServerError {
			return errors.NewProviderError(string(sErr.Code), sErr.Msg)
		}
		return errors.NewTransportError("stripe", sErr.Msg, err)
	}
	return errors.NewTransportError("stripe", "", err)
}

func convertIntent(intent *stripe.PaymentIntent) *PaymentIntent {
	return &PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
	}
}

func convertProduct(sp *stripe.Product) models.Product {
	if sp == nil {
		return models.Product{}
	}

	p := models.Product{
		ID:          sp.ID,
		Name:        sp.Name,
		Active:      sp.Active,
		Description: sp.Description,
		Metadata:    sp.Metadata,
	}
	if sp.DefaultPrice != nil {
		p.DefaultPriceID = sp.DefaultPrice.ID
	}
	return p
}

func convertPrice(sp *stripe.Price) models.Price {
	mp := models.Price{
		ID:         sp.ID,
		Active:     sp.Active,
		Currency:   string(sp.Currency),
		UnitAmount: sp.UnitAmount,
		Type:       string(sp.Type),
		Product:    convertProduct(sp.Product),
	}
	if sp.Recurring != nil {
		mp.Recurring = &models.Recurring{
			Interval:      string(sp.Recurring.Interval),
			IntervalCount: sp.Recurring.IntervalCount,
		}
	}
	return mp
}
