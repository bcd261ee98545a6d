package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/errors"
	"github.com/dumbco/checkout-service/internal/models"
)

// CreatePaymentIntentRequest is the body of POST /create-payment-intent.
// Field names follow the wire format the website sends.
type CreatePaymentIntentRequest struct {
	PriceID  string `json:"priceId"`
	Quantity int64  `json:"quantity"`
}

// GetPrices handles GET /prices. The optional product_id query narrows the
// list to one product's pricing options; checkout_only limits results to
// products gated into the website checkout.
func (h *Handlers) GetPrices(c *gin.Context) {
	productID := c.Query("product_id")

	var (
		prices []models.Price
		err    error
	)
	if productID != "" || c.Query("checkout_only") == "true" {
		prices, err = h.catalog.CheckoutPrices(c.Request.Context(), productID)
	} else {
		prices, err = h.catalog.ListPrices(c.Request.Context())
	}
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PricesResponse{Data: prices})
}

// GetProducts handles GET /products.
func (h *Handlers) GetProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProductsResponse{Data: products})
}

// CreatePaymentIntent handles POST /create-payment-intent.
func (h *Handlers) CreatePaymentIntent(c *gin.Context) {
	var req CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind payment intent request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.checkout.CreateSession(c.Request.Context(), req.PriceID, req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clientSecret": session.ClientSecret,
		"sessionId":    session.ID,
	})
}

// GetSessionStatus handles GET /session-status?session_id=...
func (h *Handlers) GetSessionStatus(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	status, err := h.checkout.SessionStatus(c.Request.Context(), sessionID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// handleError maps service errors onto the response taxonomy: validation
// errors render inline next to their field, provider rejections surface the
// provider's message verbatim, transport failures become a banner-level
// message. Nothing here crashes the flow; every path leaves the form
// retryable.
func handleError(c *gin.Context, err error) {
	if err == errors.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if err == errors.ErrConflict {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if validationErr, ok := err.(*errors.ValidationError); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
		return
	}

	if providerErr, ok := err.(*errors.ProviderError); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": providerErr.Message,
			"code":  providerErr.Code,
		})
		return
	}

	if transportErr, ok := err.(*errors.TransportError); ok {
		c.JSON(http.StatusBadGateway, gin.H{"error": transportErr.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
