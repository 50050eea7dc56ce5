package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/mockpay/sessionkit/internal/interfaces"
	"github.com/mockpay/sessionkit/internal/models"
	"github.com/mockpay/sessionkit/internal/models/events"
)

const subject = "payments.succeeded"

// Notifier announces successful payments on a NATS subject.
type Notifier struct {
	conn *nats.Conn
}

func NewNotifier(url string) (*Notifier, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Notifier{conn: conn}, nil
}

func (n *Notifier) AnnounceSuccess(_ context.Context, outcome models.TransactionOutcome) error {
	data, err := json.Marshal(events.FromOutcome(outcome))
	if err != nil {
		return err
	}
	return n.conn.Publish(subject, data)
}

func (n *Notifier) Close() {
	n.conn.Close()
}

var _ interfaces.OverlayNotifier = (*Notifier)(nil)
