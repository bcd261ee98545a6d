package service

import (
	"strings"

	"github.com/dumbco/checkout-service/internal/errors"
	"github.com/dumbco/checkout-service/internal/models"
)

// NormalizePhone strips all non-digit characters from a phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone validates a user-entered phone number and returns its
// normalized digit-only form. A valid number is exactly 10 digits after
// stripping formatting.
func ValidatePhone(phone string) (string, error) {
	cleaned := NormalizePhone(phone)

	if cleaned == "" {
		return "", errors.NewValidationError("phone", "Phone number is required")
	}

	if len(cleaned) != 10 {
		return cleaned, errors.NewValidationError("phone", "Phone number must be 10 digits")
	}

	return cleaned, nil
}

// ValidateEmail checks local email presence. Acceptance beyond presence is
// delegated to the provider's email-update call.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.NewValidationError("email", "Email is required")
	}
	return nil
}

// ValidatePromoCode rejects empty or whitespace-only promo codes locally,
// before any provider round-trip, and returns the trimmed code.
func ValidatePromoCode(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "", errors.NewValidationError("promo_code", "Promotion code is required")
	}
	return trimmed, nil
}

// ValidateLineItems enforces the session snapshot invariant that no item's
// post-discount amount exceeds its pre-discount amount.
func ValidateLineItems(items []models.LineItem) error {
	for _, item := range items {
		if item.PostDiscountAmount.GreaterThan(item.PreDiscountAmount) {
			return errors.NewValidationError("line_items",
				"post-discount amount exceeds pre-discount amount for "+item.Name)
		}
	}
	return nil
}
