// Package messaging publishes domain events recorded in the outbox to external
// consumers.
package messaging

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/pkg/circuitbreaker"
	"github.com/boipara/bookstore/pkg/metrics"
)

// EventSink delivers one domain event.
type EventSink interface {
	Publish(ctx context.Context, event outbox.EventPayload) error
	Close() error
}

// LogSink writes events to the log. It is the default when no broker is configured.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink that only logs events.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(_ context.Context, event outbox.EventPayload) error {
	s.logger.Info("domain event",
		zap.String("name", event.Name),
		zap.String("key", event.Key),
		zap.Time("occurred_at", event.OccurredAt),
		zap.ByteString("data", event.Data),
	)
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, "log", event.Name)
	return nil
}

func (s *LogSink) Close() error { return nil }

// BreakerSink guards another sink with a circuit breaker, so a broker outage
// fails fast and the outbox retries later.
type BreakerSink struct {
	next    EventSink
	breaker *circuitbreaker.CircuitBreaker
}

// NewBreakerSink wraps next with a circuit breaker named name.
func NewBreakerSink(name string, next EventSink, logger *zap.Logger) *BreakerSink {
	cfg := circuitbreaker.DefaultConfig()
	cfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		logger.Warn("event sink breaker state changed",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.SetGaugeVec(metrics.CircuitBreakerState, float64(to), name)
	}
	return &BreakerSink{next: next, breaker: circuitbreaker.NewCircuitBreaker(name, cfg)}
}

func (s *BreakerSink) Publish(ctx context.Context, event outbox.EventPayload) error {
	err := s.breaker.Execute(func() error {
		return s.next.Publish(ctx, event)
	})
	result := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	case err != nil:
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, s.breaker.Name(), result)
	return err
}

func (s *BreakerSink) Close() error {
	return s.next.Close()
}

// envelope is the wire shape of an event on every broker.
type envelope struct {
	Name       string          `json:"name"`
	Key        string          `json:"key"`
	OccurredAt string          `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

func encode(event outbox.EventPayload) ([]byte, error) {
	return json.Marshal(envelope{
		Name:       event.Name,
		Key:        event.Key,
		OccurredAt: event.OccurredAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Data:       event.Data,
	})
}
