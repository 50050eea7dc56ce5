package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the terminal result of a payment attempt.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// TransactionOutcome is the finalized result of a payment attempt. Exactly
// one outcome is produced per transaction, at the moment the terminal
// transition fires, and it is never revised afterwards.
type TransactionOutcome struct {
	TransactionID string          `json:"transaction_id"` // equals the originating request ID
	Status        Status          `json:"status"`
	Amount        decimal.Decimal `json:"amount"` // copied from the request
	Timestamp     time.Time       `json:"timestamp"`
	Message       string          `json:"message"`
}
