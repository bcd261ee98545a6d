package repository

import (
	"context"

	"github.com/dumbco/checkout-service/internal/models"
)

// SessionStore holds live checkout session state. Sessions are short-lived
// and TTL-bounded; losing one only forces the client to re-derive from a new
// provider session.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.CheckoutSession, error)
	Save(ctx context.Context, session *models.CheckoutSession) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository persists confirmed checkout orders.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, sessionID string, status models.OrderStatus) error
}

// CatalogCache caches the provider price list between refreshes.
type CatalogCache interface {
	GetPrices(ctx context.Context) ([]models.Price, error)
	SetPrices(ctx context.Context, prices []models.Price) error
	Invalidate(ctx context.Context) error
}
