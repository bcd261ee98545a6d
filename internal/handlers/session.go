package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/models"
	"github.com/dumbco/checkout-service/internal/service"
)

// ApplyPromotionRequest is the body of POST /sessions/:id/promotion.
type ApplyPromotionRequest struct {
	Code string `json:"code"`
}

// UpdateEmailRequest is the body of POST /sessions/:id/email.
type UpdateEmailRequest struct {
	Email string `json:"email"`
}

// GetTotals handles GET /sessions/:id/totals.
func (h *Handlers) GetTotals(c *gin.Context) {
	totals, err := h.checkout.Totals(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}

// ApplyPromotion handles POST /sessions/:id/promotion.
func (h *Handlers) ApplyPromotion(c *gin.Context) {
	sessionID := c.Param("id")

	var req ApplyPromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.checkout.ApplyPromotion(c.Request.Context(), sessionID, req.Code)
	if err != nil {
		handleError(c, err)
		return
	}

	totals := h.totalsFor(session)
	c.JSON(http.StatusOK, gin.H{
		"promo_state": session.PromoState,
		"discount":    session.Discount,
		"totals":      totals,
	})
}

// UpdateBillingAddress handles POST /sessions/:id/billing-address. The
// response carries recomputed totals so the caller sees tax changes
// immediately.
func (h *Handlers) UpdateBillingAddress(c *gin.Context) {
	sessionID := c.Param("id")

	var event models.AddressEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.Error("Failed to bind address event", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.checkout.UpdateBillingAddress(c.Request.Context(), sessionID, event)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"billing_jurisdiction": session.BillingJurisdiction,
		"totals":               h.totalsFor(session),
	})
}

// UpdateEmail handles POST /sessions/:id/email.
func (h *Handlers) UpdateEmail(c *gin.Context) {
	sessionID := c.Param("id")

	var req UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.checkout.UpdateEmail(c.Request.Context(), sessionID, req.Email)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": session.Email})
}

// ConfirmSession handles POST /sessions/:id/confirm.
func (h *Handlers) ConfirmSession(c *gin.Context) {
	sessionID := c.Param("id")

	var req service.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.checkout.Confirm(c.Request.Context(), sessionID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handlers) totalsFor(session *models.CheckoutSession) models.OrderTotals {
	return service.ComputeOrderTotals(session.LineItems, session.Discount, session.BillingJurisdiction)
}
