package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRequest represents an intent to take a payment. It is built
// once per attempt and never mutated afterwards.
type TransactionRequest struct {
	ID           string
	Amount       decimal.Decimal
	Description  string
	MerchantName string
	CreatedAt    time.Time
}

// NewTransactionRequest builds a request with a fresh unique identifier.
// Identifiers are random UUIDs and are never reused.
func NewTransactionRequest(amount decimal.Decimal, description, merchantName string) TransactionRequest {
	return TransactionRequest{
		ID:           uuid.New().String(),
		Amount:       amount,
		Description:  description,
		MerchantName: merchantName,
		CreatedAt:    time.Now(),
	}
}
