package interfaces

import (
	"context"

	"github.com/mockpay/sessionkit/internal/models"
)

// OverlayNotifier announces a successful payment outside the payment flow.
// Announcements are best-effort: the coordinator logs errors and never lets
// them influence the session outcome or its timing.
type OverlayNotifier interface {
	AnnounceSuccess(ctx context.Context, outcome models.TransactionOutcome) error
}
