package service

import (
	"context"
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/clients"
	"github.com/dumbco/checkout-service/internal/errors"
	"github.com/dumbco/checkout-service/internal/models"
	"github.com/dumbco/checkout-service/internal/repository"
)

// CatalogService serves the remote pricing catalog with a short-lived cache
// in front of the provider.
type CatalogService struct {
	provider clients.CheckoutProvider
	cache    repository.CatalogCache
	logger   *zap.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(provider clients.CheckoutProvider, cache repository.CatalogCache, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		provider: provider,
		cache:    cache,
		logger:   logger,
	}
}

// ListPrices returns active prices whose parent product is also active.
// Results are cached; cache failures fall through to the provider.
func (s *CatalogService) ListPrices(ctx context.Context) ([]models.Price, error) {
	if s.cache != nil {
		cached, err := s.cache.GetPrices(ctx)
		if err != nil {
			s.logger.Warn("Catalog cache unavailable", zap.Error(err))
		}
		if cached != nil {
			return cached, nil
		}
	}

	all, err := s.provider.ListPrices(ctx)
	if err != nil {
		return nil, err
	}

	prices := make([]models.Price, 0, len(all))
	for _, p := range all {
		if p.Active && p.Product.Active {
			prices = append(prices, p)
		}
	}

	if s.cache != nil {
		if err := s.cache.SetPrices(ctx, prices); err != nil {
			s.logger.Warn("Failed to cache catalog prices", zap.Error(err))
		}
	}

	return prices, nil
}

// CheckoutPrices returns the prices gated into the website checkout flow,
// ordered by their configured row. An optional productID narrows the result
// to one product's pricing options.
func (s *CatalogService) CheckoutPrices(ctx context.Context, productID string) ([]models.Price, error) {
	prices, err := s.ListPrices(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Price, 0, len(prices))
	for _, p := range prices {
		if !p.Product.CheckoutEnabled() {
			continue
		}
		if productID != "" && p.Product.ID != productID {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return productRow(filtered[i].Product) < productRow(filtered[j].Product)
	})

	return filtered, nil
}

// ListProducts returns the active catalog products.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	all, err := s.provider.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(all))
	for _, p := range all {
		if p.Active {
			products = append(products, p)
		}
	}

	return products, nil
}

// FindPrice resolves a price ID against the active catalog.
func (s *CatalogService) FindPrice(ctx context.Context, priceID string) (*models.Price, error) {
	prices, err := s.ListPrices(ctx)
	if err != nil {
		return nil, err
	}

	for i := range prices {
		if prices[i].ID == priceID {
			return &prices[i], nil
		}
	}

	return nil, errors.ErrNotFound
}

// productRow reads the catalog display row from product metadata. Products
// without a parsable row sort last.
func productRow(p models.Product) float64 {
	raw, ok := p.Metadata[models.MetadataCheckoutRow]
	if !ok {
		return math.Inf(1)
	}
	row, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.Inf(1)
	}
	return row
}
