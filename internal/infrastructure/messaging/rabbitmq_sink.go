package messaging

import (
	"context"

	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/pkg/metrics"
	"github.com/boipara/bookstore/pkg/mq"
)

// RabbitSink publishes each event to a topic exchange with the event name
// (e.g. "order.created") as routing key.
type RabbitSink struct {
	publisher *mq.Publisher
}

// NewRabbitSink creates a sink that publishes events through publisher.
func NewRabbitSink(publisher *mq.Publisher) *RabbitSink {
	return &RabbitSink{publisher: publisher}
}

func (s *RabbitSink) Publish(ctx context.Context, event outbox.EventPayload) error {
	body, err := encode(event)
	if err != nil {
		return err
	}
	if err := s.publisher.PublishRaw(ctx, event.Name, body); err != nil {
		return err
	}
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, "rabbitmq", event.Name)
	return nil
}

func (s *RabbitSink) Close() error {
	return s.publisher.Close()
}
