package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/errors"
)

func testHandlers() *Handlers {
	return NewHandlers(nil, nil, nil, zap.NewNop())
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := testHandlers()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Health(c)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", resp["status"])
	}

	if resp["service"] != "checkout-service" {
		t.Errorf("Expected service 'checkout-service', got %v", resp["service"])
	}
}

func TestReady(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := testHandlers()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Ready(c)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestLive(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := testHandlers()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Live(c)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody map[string]string
	}{
		{
			name:         "not found",
			err:          errors.ErrNotFound,
			expectedCode: http.StatusNotFound,
			expectedBody: map[string]string{"error": "not found"},
		},
		{
			name:         "conflict",
			err:          errors.ErrConflict,
			expectedCode: http.StatusConflict,
			expectedBody: map[string]string{"error": "operation already in progress"},
		},
		{
			name:         "validation renders field",
			err:          errors.NewValidationError("phone", "Phone number must be 10 digits"),
			expectedCode: http.StatusBadRequest,
			expectedBody: map[string]string{
				"error": "Phone number must be 10 digits",
				"field": "phone",
			},
		},
		{
			name:         "provider rejection verbatim",
			err:          errors.NewProviderError("invalid_promotion_code", "This promotion code is invalid or has expired."),
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: map[string]string{
				"error": "This promotion code is invalid or has expired.",
				"code":  "invalid_promotion_code",
			},
		},
		{
			name:         "transport failure",
			err:          errors.NewTransportError("stripe", "connection refused", nil),
			expectedCode: http.StatusBadGateway,
			expectedBody: map[string]string{"error": "stripe: connection refused"},
		},
		{
			name:         "unknown error",
			err:          fmt.Errorf("boom"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: map[string]string{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			handleError(c, tt.err)

			if w.Code != tt.expectedCode {
				t.Errorf("Expected status %d, got %d", tt.expectedCode, w.Code)
			}

			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}
			for key, expected := range tt.expectedBody {
				if resp[key] != expected {
					t.Errorf("Expected %s=%q, got %q", key, expected, resp[key])
				}
			}
		})
	}
}

func TestCreatePaymentIntent_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := testHandlers()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/create-payment-intent", bytes.NewBufferString("not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CreatePaymentIntent(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestGetSessionStatus_MissingSessionID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := testHandlers()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/session-status", nil)

	h.GetSessionStatus(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["error"] != "session_id is required" {
		t.Errorf("Expected session_id error, got %q", resp["error"])
	}
}

func TestApplyPromotion_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := testHandlers()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "cs_test"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/sessions/cs_test/promotion", bytes.NewBufferString("{"))
	c.Request.Header.Set("Content-Type", "application/json")

	h.ApplyPromotion(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
