package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/errors"
	"github.com/dumbco/checkout-service/internal/models"
)

// Ensure PostgresOrderRepository implements OrderRepository.
var _ OrderRepository = (*PostgresOrderRepository)(nil)

// PostgresOrderRepository implements OrderRepository using PostgreSQL.
type PostgresOrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresOrderRepository creates a PostgreSQL order repository.
func NewPostgresOrderRepository(db *sql.DB, logger *zap.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a confirmed checkout order.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = generateOrderID()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}
	shippingJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}
	billingJSON, err := json.Marshal(order.BillingAddress)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO checkout_orders (
			id, session_id, payment_intent_id, status, email, phone, items,
			shipping_address, billing_address, currency,
			subtotal, discount, tax, shipping, total,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
	`

	_, err = r.db.ExecContext(ctx, query,
		order.ID,
		order.SessionID,
		order.PaymentIntentID,
		order.Status,
		order.Email,
		order.Phone,
		itemsJSON,
		shippingJSON,
		billingJSON,
		order.Currency,
		order.Subtotal,
		order.Discount,
		order.Tax,
		order.Shipping,
		order.Total,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order",
			zap.String("session_id", order.SessionID),
			zap.Error(err),
		)
		return err
	}

	r.logger.Info("Order recorded",
		zap.String("order_id", order.ID),
		zap.String("session_id", order.SessionID),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return nil
}

// GetBySessionID retrieves the order recorded for a checkout session.
func (r *PostgresOrderRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	query := `
		SELECT id, session_id, payment_intent_id, status, email, phone, items,
		       shipping_address, billing_address, currency,
		       subtotal, discount, tax, shipping, total,
		       created_at, updated_at
		FROM checkout_orders
		WHERE session_id = $1
	`

	var order models.Order
	var itemsJSON, shippingJSON, billingJSON []byte

	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&order.ID,
		&order.SessionID,
		&order.PaymentIntentID,
		&order.Status,
		&order.Email,
		&order.Phone,
		&itemsJSON,
		&shippingJSON,
		&billingJSON,
		&order.Currency,
		&order.Subtotal,
		&order.Discount,
		&order.Tax,
		&order.Shipping,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch order",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shippingJSON, &order.ShippingAddress); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(billingJSON, &order.BillingAddress); err != nil {
		return nil, err
	}

	return &order, nil
}

// UpdateStatus transitions the order recorded for a session.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, sessionID string, status models.OrderStatus) error {
	query := `
		UPDATE checkout_orders
		SET status = $2, updated_at = $3
		WHERE session_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, sessionID, status, time.Now())
	if err != nil {
		r.logger.Error("Failed to update order status",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.ErrNotFound
	}

	r.logger.Info("Order status updated",
		zap.String("session_id", sessionID),
		zap.String("status", string(status)),
	)
	return nil
}

func generateOrderID() string {
	return "ord_" + uuid.NewString()
}
