package handlers

import (
	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/config"
	"github.com/dumbco/checkout-service/internal/service"
)

// Handlers holds all HTTP handlers for the checkout service.
type Handlers struct {
	checkout *service.CheckoutService
	catalog  *service.CatalogService
	config   *config.Config
	logger   *zap.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	checkout *service.CheckoutService,
	catalog *service.CatalogService,
	cfg *config.Config,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		checkout: checkout,
		catalog:  catalog,
		config:   cfg,
		logger:   logger,
	}
}
