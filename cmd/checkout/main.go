package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/clients"
	"github.com/dumbco/checkout-service/internal/config"
	"github.com/dumbco/checkout-service/internal/events"
	"github.com/dumbco/checkout-service/internal/handlers"
	"github.com/dumbco/checkout-service/internal/repository"
	"github.com/dumbco/checkout-service/internal/server"
	"github.com/dumbco/checkout-service/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Missing .env is fine; env vars may come from the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting checkout-service", zap.Int("port", cfg.Server.Port))

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	orderRepo := repository.NewPostgresOrderRepository(db, logger)
	sessionStore := repository.NewRedisSessionStore(cfg.Redis, logger)
	catalogCache := repository.NewRedisCatalogCache(cfg.Redis, logger)

	provider := clients.NewStripeProvider(cfg.Stripe, logger)

	eventPublisher := events.NewKafkaPublisher(cfg.Kafka, logger)
	defer eventPublisher.Close()

	catalogService := service.NewCatalogService(provider, catalogCache, logger)
	checkoutService := service.NewCheckoutService(
		provider,
		catalogService,
		sessionStore,
		orderRepo,
		eventPublisher,
		cfg,
		logger,
	)

	h := handlers.NewHandlers(checkoutService, catalogService, cfg, logger)

	srv := server.New(h, cfg, logger)

	go func() {
		logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	eventConsumer := events.NewKafkaConsumer(cfg.Kafka, checkoutService, logger)
	go func() {
		if err := eventConsumer.Start(context.Background()); err != nil {
			logger.Error("Event consumer failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	eventConsumer.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initDatabase(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	logger.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name),
	)

	return db, nil
}
