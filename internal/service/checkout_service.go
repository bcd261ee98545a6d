package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/clients"
	"github.com/dumbco/checkout-service/internal/config"
	"github.com/dumbco/checkout-service/internal/errors"
	"github.com/dumbco/checkout-service/internal/models"
	"github.com/dumbco/checkout-service/internal/repository"
)

// EventPublisher publishes checkout lifecycle events. Publish failures are
// logged, never surfaced to the customer.
type EventPublisher interface {
	PublishSessionCreated(ctx context.Context, session *models.CheckoutSession) error
	PublishPromotionApplied(ctx context.Context, session *models.CheckoutSession) error
	PublishCheckoutConfirmed(ctx context.Context, order *models.Order) error
	PublishCheckoutCompleted(ctx context.Context, sessionID string) error
}

// SessionStatusResult is the payload of the session-status lookup. A status
// of "complete" is the only success condition.
type SessionStatusResult struct {
	Status        models.SessionStatus `json:"status"`
	PaymentStatus string               `json:"payment_status"`
}

// ConfirmRequest carries the submission fields validated before handing the
// session off to the provider's confirm operation.
type ConfirmRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ConfirmResult reports the provider's immediate confirmation outcome.
type ConfirmResult struct {
	SessionID     string `json:"session_id"`
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
}

// CheckoutService owns checkout session state and keeps the displayed price
// breakdown consistent across session refreshes and jurisdiction changes.
type CheckoutService struct {
	provider  clients.CheckoutProvider
	catalog   *CatalogService
	sessions  repository.SessionStore
	orders    repository.OrderRepository
	publisher EventPublisher
	config    *config.Config
	logger    *zap.Logger
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(
	provider clients.CheckoutProvider,
	catalog *CatalogService,
	sessions repository.SessionStore,
	orders repository.OrderRepository,
	publisher EventPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		provider:  provider,
		catalog:   catalog,
		sessions:  sessions,
		orders:    orders,
		publisher: publisher,
		config:    cfg,
		logger:    logger,
	}
}

// CreateSession opens a checkout session for a catalog price: one product
// line item plus the flat-rate shipping line, and a provider payment intent
// for the initial grand total. Tax starts at zero pending jurisdiction
// information.
func (s *CheckoutService) CreateSession(ctx context.Context, priceID string, quantity int64) (*models.CheckoutSession, error) {
	if priceID == "" {
		return nil, errors.NewValidationError("priceId", "priceId is required")
	}
	if quantity <= 0 {
		quantity = 1
	}

	price, err := s.catalog.FindPrice(ctx, priceID)
	if err != nil {
		return nil, err
	}

	category := price.Product.Category()
	if category == "" {
		category = models.ItemCategoryProduct
	}

	items := []models.LineItem{
		{
			Name:               price.Product.Name,
			Category:           category,
			PriceID:            price.ID,
			Quantity:           quantity,
			PreDiscountAmount:  decimal.New(price.UnitAmount*quantity, -2),
			PostDiscountAmount: decimal.New(price.UnitAmount*quantity, -2),
			Currency:           price.Currency,
		},
		{
			Name:               s.config.Shipping.Name,
			Category:           models.ItemCategoryShipping,
			Quantity:           1,
			PreDiscountAmount:  decimal.New(s.config.Shipping.AmountMinorUnits, -2),
			PostDiscountAmount: decimal.New(s.config.Shipping.AmountMinorUnits, -2),
			Currency:           price.Currency,
		},
	}

	totals := ComputeOrderTotals(items, nil, nil)

	sessionID := "cs_" + uuid.NewString()

	intent, err := s.provider.CreatePaymentIntent(ctx, clients.CreateIntentRequest{
		AmountMinorUnits: totals.GrandTotalMinorUnits(),
		Currency:         price.Currency,
		Description:      price.Product.Name,
		SessionID:        sessionID,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &models.CheckoutSession{
		ID:              sessionID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Status:          models.SessionStatusOpen,
		PriceID:         price.ID,
		Quantity:        quantity,
		Currency:        price.Currency,
		LineItems:       items,
		PromoState:      models.PromoStateIdle,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishSessionCreated(ctx, session); err != nil {
		s.logger.Error("Failed to publish session created event",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}

	sessionsCreated.Inc()

	s.logger.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.String("price_id", price.ID),
		zap.String("total", totals.GrandTotal.StringFixed(2)),
	)

	return session, nil
}

// GetSession retrieves the current session snapshot.
func (s *CheckoutService) GetSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	return s.sessions.Get(ctx, sessionID)
}

// Totals recomputes the price breakdown from the current session snapshot.
func (s *CheckoutService) Totals(ctx context.Context, sessionID string) (models.OrderTotals, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return models.OrderTotals{}, err
	}

	return ComputeOrderTotals(session.LineItems, session.Discount, session.BillingJurisdiction), nil
}

// SessionStatus reports the session lifecycle state together with the
// provider's payment status. A payment that has reached success flips the
// session to complete.
func (s *CheckoutService) SessionStatus(ctx context.Context, sessionID string) (*SessionStatusResult, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	intent, err := s.provider.GetPaymentIntent(ctx, session.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	if intent.Status == "succeeded" && session.Status != models.SessionStatusComplete {
		if err := s.markComplete(ctx, session); err != nil {
			return nil, err
		}
	}

	return &SessionStatusResult{
		Status:        session.Status,
		PaymentStatus: intent.Status,
	}, nil
}

// ApplyPromotion runs the promo code application protocol. Blank input is
// rejected locally without a provider round-trip; only one attempt may be in
// flight per session; a rejected attempt leaves any prior discount intact.
func (s *CheckoutService) ApplyPromotion(ctx context.Context, sessionID, code string) (*models.CheckoutSession, error) {
	trimmed, err := ValidatePromoCode(code)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.PromoState == models.PromoStateApplying {
		return nil, errors.ErrConflict
	}

	priorDiscount := session.Discount

	session.PromoState = models.PromoStateApplying
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	promo, err := s.provider.LookupPromotion(ctx, trimmed)
	if err != nil {
		session.PromoState = models.PromoStateRejected
		session.Discount = priorDiscount
		if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
			s.logger.Error("Failed to persist rejected promo state",
				zap.String("session_id", session.ID),
				zap.Error(saveErr),
			)
		}
		promoApplications.WithLabelValues("rejected").Inc()
		return nil, err
	}

	session.Discount = &models.Discount{
		AmountMinorUnits: discountMinorUnits(promo, session.LineItems),
		Code:             trimmed,
	}
	session.PromoState = models.PromoStateApplied
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishPromotionApplied(ctx, session); err != nil {
		s.logger.Error("Failed to publish promotion applied event",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}

	promoApplications.WithLabelValues("applied").Inc()

	s.logger.Info("Promotion applied",
		zap.String("session_id", session.ID),
		zap.String("code", trimmed),
		zap.Int64("amount_off", session.Discount.AmountMinorUnits),
	)

	return session, nil
}

// UpdateBillingAddress handles one billing-address change event. The
// jurisdiction updates on every event regardless of completeness, so tax
// recalculates progressively as the user types. With the same-as-shipping
// flag set and a complete address, the billing address is propagated to the
// provider's shipping address exactly once per such event; unsetting the
// flag never undoes past synchronization.
func (s *CheckoutService) UpdateBillingAddress(ctx context.Context, sessionID string, event models.AddressEvent) (*models.CheckoutSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	jurisdiction := event.Address.State
	session.BillingJurisdiction = &jurisdiction
	session.BillingAddress = &event.Address
	session.SameAsShipping = event.SameAsShipping

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	if event.SameAsShipping && event.Complete {
		if err := s.provider.UpdateShipping(ctx, session.PaymentIntentID, event.Name, event.Address); err != nil {
			return nil, err
		}
		session.ShippingAddress = &event.Address
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}

	return session, nil
}

// UpdateEmail delegates email validation to the provider and stores the
// accepted address. Provider rejections surface verbatim.
func (s *CheckoutService) UpdateEmail(ctx context.Context, sessionID, email string) (*models.CheckoutSession, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.provider.UpdateEmail(ctx, session.PaymentIntentID, email); err != nil {
		return nil, err
	}

	session.Email = email
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Confirm runs the submission contract: email accepted by the provider,
// phone exactly 10 digits after normalization, a single in-flight submission
// per session, final amount pushed to the provider, then the provider's
// confirm operation. A confirmed checkout is recorded as an order.
func (s *CheckoutService) Confirm(ctx context.Context, sessionID string, req ConfirmRequest) (*ConfirmResult, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Submitting {
		return nil, errors.ErrConflict
	}

	session.Submitting = true
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	defer func() {
		session.Submitting = false
		if err := s.sessions.Save(ctx, session); err != nil {
			s.logger.Error("Failed to clear submitting flag",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
		}
	}()

	if err := ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := s.provider.UpdateEmail(ctx, session.PaymentIntentID, req.Email); err != nil {
		return nil, err
	}
	session.Email = req.Email

	phone, err := ValidatePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	session.Phone = phone

	if err := ValidateLineItems(session.LineItems); err != nil {
		return nil, err
	}

	totals := ComputeOrderTotals(session.LineItems, session.Discount, session.BillingJurisdiction)

	if err := s.provider.UpdateAmount(ctx, session.PaymentIntentID, totals.GrandTotalMinorUnits()); err != nil {
		return nil, err
	}

	intent, err := s.provider.ConfirmPaymentIntent(ctx, session.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		SessionID:       session.ID,
		PaymentIntentID: session.PaymentIntentID,
		Status:          models.OrderStatusConfirmed,
		Email:           session.Email,
		Phone:           session.Phone,
		Items:           session.LineItems,
		ShippingAddress: session.ShippingAddress,
		BillingAddress:  session.BillingAddress,
		Currency:        totals.Currency,
		Subtotal:        totals.Subtotal,
		Discount:        totals.Discount,
		Tax:             totals.Tax,
		Shipping:        totals.Shipping,
		Total:           totals.GrandTotal,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishCheckoutConfirmed(ctx, order); err != nil {
		s.logger.Error("Failed to publish checkout confirmed event",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}

	checkoutsConfirmed.Inc()

	s.logger.Info("Checkout confirmed",
		zap.String("session_id", session.ID),
		zap.String("order_id", order.ID),
		zap.String("payment_status", intent.Status),
	)

	return &ConfirmResult{
		SessionID:     session.ID,
		OrderID:       order.ID,
		PaymentStatus: intent.Status,
	}, nil
}

// HandlePaymentResult applies a terminal payment outcome reported by the
// payment events stream.
func (s *CheckoutService) HandlePaymentResult(ctx context.Context, sessionID string, succeeded bool) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if !succeeded {
		if err := s.orders.UpdateStatus(ctx, sessionID, models.OrderStatusFailed); err != nil && err != errors.ErrNotFound {
			return err
		}
		s.logger.Warn("Payment failed for session", zap.String("session_id", sessionID))
		return nil
	}

	return s.markComplete(ctx, session)
}

func (s *CheckoutService) markComplete(ctx context.Context, session *models.CheckoutSession) error {
	session.Status = models.SessionStatusComplete
	if err := s.sessions.Save(ctx, session); err != nil {
		return err
	}

	if err := s.orders.UpdateStatus(ctx, session.ID, models.OrderStatusPaid); err != nil && err != errors.ErrNotFound {
		return err
	}

	if err := s.publisher.PublishCheckoutCompleted(ctx, session.ID); err != nil {
		s.logger.Error("Failed to publish checkout completed event",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}

	checkoutsCompleted.Inc()
	return nil
}

// discountMinorUnits converts a provider promotion into an absolute discount
// amount. Percentage coupons are taken against the pre-discount subtotal.
func discountMinorUnits(promo *clients.Promotion, items []models.LineItem) int64 {
	if promo.AmountOff > 0 {
		return promo.AmountOff
	}
	if promo.PercentOff <= 0 {
		return 0
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.PreDiscountAmount)
	}

	percent := decimal.NewFromFloat(promo.PercentOff).Div(decimal.NewFromInt(100))
	return subtotal.Mul(percent).Round(2).Shift(2).IntPart()
}
