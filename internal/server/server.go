package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/config"
	"github.com/dumbco/checkout-service/internal/handlers"
)

// Server wraps the HTTP server and routing for the checkout service.
type Server struct {
	config   *config.Config
	router   *gin.Engine
	handlers *handlers.Handlers
	httpSrv  *http.Server
	logger   *zap.Logger
}

// New creates a server with routes registered.
func New(h *handlers.Handlers, cfg *config.Config, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(metricsMiddleware())

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
		logger:   logger,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.Health)
	s.router.GET("/ready", s.handlers.Ready)
	s.router.GET("/live", s.handlers.Live)
	s.router.GET("/version", s.handlers.Version)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/prices", s.handlers.GetPrices)
	s.router.GET("/products", s.handlers.GetProducts)
	s.router.POST("/create-payment-intent", s.handlers.CreatePaymentIntent)
	s.router.GET("/session-status", s.handlers.GetSessionStatus)

	sessions := s.router.Group("/sessions")
	{
		sessions.GET("/:id/totals", s.handlers.GetTotals)
		sessions.POST("/:id/promotion", s.handlers.ApplyPromotion)
		sessions.POST("/:id/billing-address", s.handlers.UpdateBillingAddress)
		sessions.POST("/:id/email", s.handlers.UpdateEmail)
		sessions.POST("/:id/confirm", s.handlers.ConfirmSession)
	}
}

// Start begins serving HTTP traffic. It blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Server.Port)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// requestLogger logs each request with method, path, status, and latency.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
