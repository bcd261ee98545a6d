package repository

import (
	"testing"
)

func TestPostgresOrderRepository_Create(t *testing.T) {
	t.Skip("Integration test - requires database")
}

func TestPostgresOrderRepository_GetBySessionID(t *testing.T) {
	t.Skip("Integration test - requires database")
}

func TestPostgresOrderRepository_UpdateStatus(t *testing.T) {
	t.Skip("Integration test - requires database")
}

func TestGenerateOrderID(t *testing.T) {
	id := generateOrderID()

	if id == "" {
		t.Error("Expected non-empty order ID")
	}

	if len(id) < 10 {
		t.Errorf("Expected order ID length >= 10, got %d", len(id))
	}

	if id[:4] != "ord_" {
		t.Errorf("Expected order ID to start with 'ord_', got %s", id[:4])
	}
}
