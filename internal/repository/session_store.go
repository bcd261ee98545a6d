package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/config"
	"github.com/dumbco/checkout-service/internal/errors"
	"github.com/dumbco/checkout-service/internal/models"
)

const (
	sessionKeyPrefix  = "checkout_session:"
	defaultSessionTTL = 24 * time.Hour
)

// Ensure RedisSessionStore implements SessionStore.
var _ SessionStore = (*RedisSessionStore)(nil)

// RedisSessionStore implements SessionStore using Redis.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(cfg config.RedisConfig, logger *zap.Logger) *RedisSessionStore {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = defaultSessionTTL
	}

	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get retrieves a session by ID.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.CheckoutSession, error) {
	key := sessionKeyPrefix + id

	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		s.logger.Error("Session get error",
			zap.String("session_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	var session models.CheckoutSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// Save stores a session, refreshing its TTL.
func (s *RedisSessionStore) Save(ctx context.Context, session *models.CheckoutSession) error {
	key := sessionKeyPrefix + session.ID

	session.UpdatedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Error("Session save error",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Debug("Session saved",
		zap.String("session_id", session.ID),
		zap.String("promo_state", string(session.PromoState)),
	)
	return nil
}

// Delete removes a session.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}
