package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/pkg/circuitbreaker"
)

type failingSink struct {
	calls int
}

func (s *failingSink) Publish(context.Context, outbox.EventPayload) error {
	s.calls++
	return errors.New("broker unavailable")
}

func (s *failingSink) Close() error { return nil }

func TestBreakerSink_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &failingSink{}
	sink := NewBreakerSink("events-test", next, zap.NewNop())
	ev := outbox.EventPayload{Name: "order.created", Key: "BP1", OccurredAt: time.Now()}

	for i := 0; i < 5; i++ {
		assert.Error(t, sink.Publish(context.Background(), ev))
	}
	err := sink.Publish(context.Background(), ev)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	assert.Equal(t, 5, next.calls)
}

func TestLogSink(t *testing.T) {
	sink := NewLogSink(zap.NewNop())
	require.NoError(t, sink.Publish(context.Background(), outbox.EventPayload{Name: "order.created"}))
	require.NoError(t, sink.Close())
}

func TestEncode(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	body, err := encode(outbox.EventPayload{
		Name:       "order.cancelled",
		Key:        "BP7",
		OccurredAt: at,
		Data:       json.RawMessage(`{"orderId":7}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"order.cancelled","key":"BP7","occurred_at":"2026-01-02T03:04:05.000Z","data":{"orderId":7}}`, string(body))
}

func TestKafkaSink_RejectsAfterClose(t *testing.T) {
	sink := NewKafkaSink([]string{"127.0.0.1:1"}, "events", 4, zap.NewNop())
	require.NoError(t, sink.Close())
	err := sink.Publish(context.Background(), outbox.EventPayload{Name: "order.created"})
	assert.ErrorIs(t, err, ErrSinkClosed)
}
