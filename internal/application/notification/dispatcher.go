package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/notification"
	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/internal/infrastructure/messaging"
	"github.com/boipara/bookstore/internal/infrastructure/realtime"
	"github.com/boipara/bookstore/pkg/metrics"
)

// EventNotification is pushed to the recipient's room when a record is created.
const EventNotification = "notification"

type DispatcherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// Dispatcher drains the outbox: it creates notification records, emits pushes
// and publishes domain events. It runs in one goroutine per process.
type Dispatcher struct {
	repo          outbox.Repository
	notifications notification.Service
	emitter       realtime.Emitter
	sink          messaging.EventSink
	cfg           DispatcherConfig
	wake          chan struct{}
	logger        *zap.Logger
}

// NewDispatcher creates the outbox dispatcher.
func NewDispatcher(
	repo outbox.Repository,
	notifications notification.Service,
	emitter realtime.Emitter,
	sink messaging.EventSink,
	cfg DispatcherConfig,
	logger *zap.Logger,
) *Dispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Dispatcher{
		repo:          repo,
		notifications: notifications,
		emitter:       emitter,
		sink:          sink,
		cfg:           cfg,
		wake:          make(chan struct{}, 1),
		logger:        logger,
	}
}

// Wake schedules a pass without waiting for the next tick. It never blocks.
func (d *Dispatcher) Wake() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run dispatches until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	d.logger.Info("outbox dispatcher started", zap.Duration("poll_interval", d.cfg.PollInterval))
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("outbox dispatcher stopped")
			return
		case <-ticker.C:
		case <-d.wake:
		}

		// Keep going while full batches come back.
		for {
			n, err := d.DispatchPending(ctx)
			if err != nil {
				d.logger.Error("outbox pass failed", zap.Error(err))
				break
			}
			if n < d.cfg.BatchSize || ctx.Err() != nil {
				break
			}
		}
	}
}

// DispatchPending processes one batch and returns how many entries it picked.
func (d *Dispatcher) DispatchPending(ctx context.Context) (int, error) {
	entries, err := d.repo.FetchPending(ctx, d.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	metrics.OutboxBatchSize.Observe(float64(len(entries)))

	for _, e := range entries {
		if err := d.dispatch(ctx, e); err != nil {
			e.MarkFailed(err, d.cfg.MaxAttempts)
			result := "retry"
			if e.Status == outbox.StatusFailed {
				result = "failed"
			}
			metrics.IncCounterVec(metrics.OutboxDispatchedTotal, string(e.Kind), result)
			d.logger.Warn("outbox entry not dispatched",
				zap.Uint("entry_id", e.ID),
				zap.String("kind", string(e.Kind)),
				zap.String("aggregate", e.AggregateType),
				zap.Uint("aggregate_id", e.AggregateID),
				zap.Int("attempts", e.Attempts),
				zap.Error(err),
			)
		} else {
			e.MarkDispatched()
			metrics.IncCounterVec(metrics.OutboxDispatchedTotal, string(e.Kind), "dispatched")
		}

		if err := d.repo.UpdateResult(ctx, e); err != nil {
			return len(entries), err
		}
	}
	return len(entries), nil
}

func (d *Dispatcher) dispatch(ctx context.Context, e *outbox.Entry) error {
	switch e.Kind {
	case outbox.KindNotification:
		var p outbox.NotificationPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return fmt.Errorf("decode notification payload: %w", err)
		}
		return d.deliverNotification(ctx, p)

	case outbox.KindPush:
		var p outbox.PushPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return fmt.Errorf("decode push payload: %w", err)
		}
		return d.emitter.Emit(ctx, p.Room, p.Event, p.Data)

	case outbox.KindEvent:
		var p outbox.EventPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return fmt.Errorf("decode event payload: %w", err)
		}
		return d.sink.Publish(ctx, p)

	default:
		return fmt.Errorf("unknown outbox kind %q", e.Kind)
	}
}

// deliverNotification stores the record, then pushes it. A failed push is only
// logged: retrying would store the record twice.
func (d *Dispatcher) deliverNotification(ctx context.Context, p outbox.NotificationPayload) error {
	n := notification.New(p.UserID, notification.Type(p.Type), p.Title, p.Message, p.Link)
	n.OrderID = p.OrderID
	n.ReturnID = p.ReturnID
	if err := d.notifications.Create(ctx, n); err != nil {
		return err
	}
	if p.Room == "" {
		return nil
	}

	data, err := json.Marshal(ToNotificationDTO(n, time.Now()))
	if err != nil {
		return nil
	}
	if err := d.emitter.Emit(ctx, p.Room, EventNotification, data); err != nil {
		d.logger.Warn("notification push failed",
			zap.Uint("notification_id", n.ID),
			zap.String("room", p.Room),
			zap.Error(err),
		)
	}
	return nil
}
