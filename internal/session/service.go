package session

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mockpay/sessionkit/internal/interfaces"
	"github.com/mockpay/sessionkit/internal/metrics"
	"github.com/mockpay/sessionkit/internal/models"
	"github.com/mockpay/sessionkit/internal/registry"
)

// ErrInvalidAmount is returned by Start for negative amounts.
var ErrInvalidAmount = errors.New("amount must not be negative")

// Service is the entry point for starting payment sessions. It owns no
// session state itself; each Start spawns an independent coordinator, and
// the injected registry is the only state shared between them.
type Service struct {
	registry *registry.Registry
	surface  interfaces.PresentationSurface
	notifier interfaces.OverlayNotifier
	cfg      Config
}

// NewService wires a session service. The notifier may be nil, in which
// case successes complete without an overlay announcement.
func NewService(reg *registry.Registry, surface interfaces.PresentationSurface, notifier interfaces.OverlayNotifier, cfg Config) *Service {
	return &Service{
		registry: reg,
		surface:  surface,
		notifier: notifier,
		cfg:      cfg.withDefaults(),
	}
}

// Start begins a payment session and returns immediately with the new
// transaction ID. The result is delivered later through onResult, exactly
// once, whichever path the session takes. The only errors Start itself
// reports are a negative amount and registry.ErrDuplicateTransaction; both
// indicate a caller bug rather than a payment failure.
func (s *Service) Start(ctx context.Context, amount decimal.Decimal, description, merchantName string, onResult func(models.TransactionOutcome)) (string, error) {
	if amount.IsNegative() {
		return "", ErrInvalidAmount
	}

	req := models.NewTransactionRequest(amount, description, merchantName)
	coord := newCoordinator(req, s.surface, s.notifier, s.registry, s.cfg, onResult)

	if err := s.registry.Begin(req.ID, coord); err != nil {
		return "", err
	}
	metrics.SessionsStarted.Inc()

	go coord.run(ctx)
	return req.ID, nil
}
