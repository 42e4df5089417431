package realtime

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/boipara/bookstore/pkg/metrics"
	"github.com/boipara/bookstore/pkg/mq"
)

// bridgeMessage travels on the fanout exchange.
type bridgeMessage struct {
	Room  string `json:"room"`
	Event Event  `json:"event"`
}

// Publisher is the slice of mq.Publisher the bridge needs.
type Publisher interface {
	PublishRaw(ctx context.Context, routingKey string, body []byte) error
}

// Bridge fans emits out through RabbitMQ so every instance delivers to its own
// connections. When publishing fails the event is delivered locally only.
type Bridge struct {
	hub       *Hub
	publisher Publisher
	logger    *zap.Logger
}

// NewBridge creates a cross-instance emitter that publishes through publisher and delivers into hub.
func NewBridge(hub *Hub, publisher Publisher, logger *zap.Logger) *Bridge {
	return &Bridge{hub: hub, publisher: publisher, logger: logger}
}

func (b *Bridge) Emit(ctx context.Context, room, event string, data json.RawMessage) error {
	body, err := json.Marshal(bridgeMessage{Room: room, Event: Event{Name: event, Data: data}})
	if err != nil {
		return err
	}
	if err := b.publisher.PublishRaw(ctx, room, body); err != nil {
		b.logger.Warn("realtime bridge publish failed, delivering locally",
			zap.String("room", room),
			zap.String("event", event),
			zap.Error(err),
		)
		b.hub.Deliver(room, Event{Name: event, Data: data})
		return nil
	}
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, "rabbitmq", "realtime")
	return nil
}

// Handle is the mq.Handler for bridge deliveries. Malformed messages are
// acknowledged and skipped.
func (b *Bridge) Handle(_ string, body []byte) error {
	var msg bridgeMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		metrics.IncCounterVec(metrics.MessagesConsumedTotal, "realtime", "malformed")
		b.logger.Warn("realtime bridge message malformed", zap.Error(err))
		return nil
	}
	b.hub.Deliver(msg.Room, msg.Event)
	metrics.IncCounterVec(metrics.MessagesConsumedTotal, "realtime", "ok")
	return nil
}

// Run consumes bridge deliveries until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context, consumer *mq.Consumer) error {
	return consumer.Consume(ctx, b.Handle)
}
