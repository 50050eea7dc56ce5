// Package lognotify writes success overlays to the process log. It is the
// default notifier when no broker is configured.
package lognotify

import (
	"context"
	"log"

	"github.com/mockpay/sessionkit/internal/interfaces"
	"github.com/mockpay/sessionkit/internal/models"
)

type Notifier struct{}

func New() Notifier {
	return Notifier{}
}

func (Notifier) AnnounceSuccess(_ context.Context, outcome models.TransactionOutcome) error {
	log.Printf("payment succeeded: %s amount=%s (%s)",
		outcome.TransactionID, outcome.Amount.StringFixed(2), outcome.Message)
	return nil
}

var _ interfaces.OverlayNotifier = Notifier{}
