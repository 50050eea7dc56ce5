package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mockpay/sessionkit/internal/models"
)

// PaymentSucceeded is the wire form of a success announcement published by
// the overlay notifiers.
type PaymentSucceeded struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Message       string          `json:"message"`
}

// FromOutcome converts a finalized outcome into its announcement event.
func FromOutcome(outcome models.TransactionOutcome) PaymentSucceeded {
	return PaymentSucceeded{
		TransactionID: outcome.TransactionID,
		Amount:        outcome.Amount,
		OccurredAt:    outcome.Timestamp,
		Message:       outcome.Message,
	}
}
