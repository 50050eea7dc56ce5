package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/mockpay/sessionkit/internal/interfaces"
	"github.com/mockpay/sessionkit/internal/models"
	"github.com/mockpay/sessionkit/internal/models/events"
)

// Notifier announces successful payments on a Kafka topic.
type Notifier struct {
	writer *kafka.Writer
}

func NewNotifier(brokers []string) *Notifier {
	return &Notifier{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    "payment_succeeded",
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (n *Notifier) AnnounceSuccess(ctx context.Context, outcome models.TransactionOutcome) error {
	data, err := json.Marshal(events.FromOutcome(outcome))
	if err != nil {
		return err
	}

	return n.writer.WriteMessages(
		ctx,
		kafka.Message{
			Key:   []byte(outcome.TransactionID),
			Value: data,
		},
	)
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}

var _ interfaces.OverlayNotifier = (*Notifier)(nil)
