package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewTransactionRequestGeneratesUniqueIDs(t *testing.T) {
	amount := decimal.RequireFromString("9.99")

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		req := NewTransactionRequest(amount, "Coffee", "Roasters Inc")
		if req.ID == "" {
			t.Fatal("request created without an ID")
		}
		if seen[req.ID] {
			t.Fatalf("duplicate request ID %s", req.ID)
		}
		seen[req.ID] = true
	}
}

func TestNewTransactionRequestCopiesFields(t *testing.T) {
	amount := decimal.RequireFromString("12.30")
	req := NewTransactionRequest(amount, "Lunch", "Deli Co")

	if !req.Amount.Equal(amount) {
		t.Errorf("expected amount %s, got %s", amount, req.Amount)
	}
	if req.Description != "Lunch" || req.MerchantName != "Deli Co" {
		t.Errorf("unexpected request fields: %+v", req)
	}
	if req.CreatedAt.IsZero() {
		t.Error("CreatedAt not captured")
	}
}
