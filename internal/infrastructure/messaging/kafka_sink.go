package messaging

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/pkg/metrics"
)

var ErrSinkClosed = errors.New("event sink closed")

// KafkaSink hands events to a background writer through a buffered inbox.
// Messages are keyed by aggregate key, so one order's events stay in one partition.
type KafkaSink struct {
	writer *kafka.Writer
	inbox  chan kafka.Message
	done   chan struct{}
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
}

// NewKafkaSink creates a sink that writes events to topic asynchronously.
func NewKafkaSink(brokers []string, topic string, buffer int, logger *zap.Logger) *KafkaSink {
	if buffer <= 0 {
		buffer = 256
	}
	s := &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
		inbox:  make(chan kafka.Message, buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
	go s.loop()
	return s
}

func (s *KafkaSink) loop() {
	defer close(s.done)
	for m := range s.inbox {
		if err := s.writer.WriteMessages(context.Background(), m); err != nil {
			s.logger.Error("kafka write failed",
				zap.String("topic", s.writer.Topic),
				zap.ByteString("key", m.Key),
				zap.Error(err),
			)
			continue
		}
		metrics.IncCounterVec(metrics.MessagesPublishedTotal, "kafka", s.writer.Topic)
	}
}

// Publish enqueues the event; it blocks only while the inbox is full.
func (s *KafkaSink) Publish(ctx context.Context, event outbox.EventPayload) error {
	body, err := encode(event)
	if err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSinkClosed
	}

	msg := kafka.Message{
		Key:   []byte(event.Key),
		Value: body,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.Name)},
		},
	}
	select {
	case s.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes queued messages and closes the writer.
func (s *KafkaSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.inbox)
	s.mu.Unlock()

	<-s.done
	return s.writer.Close()
}
