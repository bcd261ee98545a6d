package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/config"
	"github.com/dumbco/checkout-service/internal/models"
)

const (
	catalogPricesKey  = "catalog:prices"
	defaultCatalogTTL = 5 * time.Minute
)

// Ensure RedisCatalogCache implements CatalogCache.
var _ CatalogCache = (*RedisCatalogCache)(nil)

// RedisCatalogCache caches the provider price list in Redis.
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCatalogCache creates a Redis-backed catalog cache.
func NewRedisCatalogCache(cfg config.RedisConfig, logger *zap.Logger) *RedisCatalogCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ttl := cfg.CatalogTTL
	if ttl == 0 {
		ttl = defaultCatalogTTL
	}

	return &RedisCatalogCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetPrices retrieves the cached price list. A miss returns nil, nil.
func (c *RedisCatalogCache) GetPrices(ctx context.Context) ([]models.Price, error) {
	data, err := c.client.Get(ctx, catalogPricesKey).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Catalog cache miss")
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Catalog cache get error", zap.Error(err))
		return nil, err
	}

	var prices []models.Price
	if err := json.Unmarshal(data, &prices); err != nil {
		return nil, err
	}

	c.logger.Debug("Catalog cache hit", zap.Int("count", len(prices)))
	return prices, nil
}

// SetPrices caches the price list.
func (c *RedisCatalogCache) SetPrices(ctx context.Context, prices []models.Price) error {
	data, err := json.Marshal(prices)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, catalogPricesKey, data, c.ttl).Err(); err != nil {
		c.logger.Error("Catalog cache set error", zap.Error(err))
		return err
	}

	return nil
}

// Invalidate drops the cached price list.
func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogPricesKey).Err()
}
