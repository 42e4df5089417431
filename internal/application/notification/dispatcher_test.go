package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/boipara/bookstore/internal/domain/notification"
	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/internal/domain/user"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/boipara/bookstore/internal/infrastructure/realtime"
)

type recordingSink struct {
	err    error
	events []outbox.EventPayload
}

func (s *recordingSink) Publish(_ context.Context, e outbox.EventPayload) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) Close() error { return nil }

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := mysql.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func drain(c *realtime.Client) []string {
	var names []string
	for {
		select {
		case ev := <-c.Events():
			names = append(names, ev.Name)
		default:
			return names
		}
	}
}

func TestDispatcher_DeliversAllKinds(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	outboxRepo := mysql.NewOutboxRepository(db)
	notifications := notification.NewService(mysql.NewNotificationRepository(db))
	hub := realtime.NewHub(8, zap.NewNop())
	sink := &recordingSink{}
	d := NewDispatcher(outboxRepo, notifications, hub, sink, DispatcherConfig{BatchSize: 10, MaxAttempts: 3}, zap.NewNop())

	buyer := hub.Connect(1, user.RoleCustomer)
	_, err := hub.Join(buyer.ID, 1, realtime.RoomCustomer)
	require.NoError(t, err)

	orderID := uint(42)
	entries, err := outbox.NewBuilder("order", orderID).
		Notify(outbox.NotificationPayload{
			UserID: 1, Room: "customer-1", Type: "order_placed",
			Title: "Order Placed", Message: "Your order BP1 has been placed.", OrderID: &orderID,
		}).
		Push("customer-1", "order-created", map[string]interface{}{"orderId": orderID}).
		Event("order.created", "BP1", map[string]interface{}{"orderId": orderID}).
		Entries()
	require.NoError(t, err)
	require.NoError(t, outboxRepo.Save(ctx, entries))

	n, err := d.DispatchPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list, err := notifications.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, &orderID, list[0].OrderID)

	assert.Equal(t, []string{"notification", "order-created"}, drain(buyer))
	require.Len(t, sink.events, 1)
	assert.Equal(t, "order.created", sink.events[0].Name)

	pending, err := outboxRepo.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDispatcher_CheckoutEventsPerRoom(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	outboxRepo := mysql.NewOutboxRepository(db)
	notifications := notification.NewService(mysql.NewNotificationRepository(db))
	hub := realtime.NewHub(8, zap.NewNop())
	d := NewDispatcher(outboxRepo, notifications, hub, &recordingSink{}, DispatcherConfig{BatchSize: 10, MaxAttempts: 3}, zap.NewNop())

	buyer := hub.Connect(1, user.RoleCustomer)
	_, err := hub.Join(buyer.ID, 1, realtime.RoomCustomer)
	require.NoError(t, err)
	seller := hub.Connect(2, user.RoleSeller)
	_, err = hub.Join(seller.ID, 2, realtime.RoomSeller)
	require.NoError(t, err)

	orderID := uint(7)
	entries, err := outbox.NewBuilder("order", orderID).
		Notify(outbox.NotificationPayload{UserID: 1, Room: "customer-1", Type: "order_placed", Title: "Order Placed", Message: "placed"}).
		Notify(outbox.NotificationPayload{UserID: 2, Room: "seller-2", Type: "new_order", Title: "New Order", Message: "new"}).
		Push("customer-1", "order-created", map[string]interface{}{"orderId": orderID, "status": "new", "total": 250}).
		Push("seller-2", "new-order", map[string]interface{}{"orderId": orderID, "customerName": "Sumi"}).
		Entries()
	require.NoError(t, err)
	require.NoError(t, outboxRepo.Save(ctx, entries))

	n, err := d.DispatchPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// one order-flow event per room, plus one notification event per record
	assert.Equal(t, []string{EventNotification, "order-created"}, drain(buyer))
	assert.Equal(t, []string{EventNotification, "new-order"}, drain(seller))
}

func TestDispatcher_RetriesThenFails(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	outboxRepo := mysql.NewOutboxRepository(db)
	notifications := notification.NewService(mysql.NewNotificationRepository(db))
	sink := &recordingSink{err: errors.New("broker down")}
	d := NewDispatcher(outboxRepo, notifications, realtime.NewHub(1, zap.NewNop()), sink,
		DispatcherConfig{BatchSize: 10, MaxAttempts: 2}, zap.NewNop())

	entries, err := outbox.NewBuilder("order", 1).Event("order.created", "BP1", nil).Entries()
	require.NoError(t, err)
	require.NoError(t, outboxRepo.Save(ctx, entries))

	_, err = d.DispatchPending(ctx)
	require.NoError(t, err)
	pending, err := outboxRepo.FetchPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1, "first failure is retried")
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Equal(t, "broker down", pending[0].LastError)

	_, err = d.DispatchPending(ctx)
	require.NoError(t, err)
	pending, err = outboxRepo.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "gives up after max attempts")
}

func TestDispatcher_RunWakesImmediately(t *testing.T) {
	db := openDB(t)
	outboxRepo := mysql.NewOutboxRepository(db)
	notifications := notification.NewService(mysql.NewNotificationRepository(db))
	sink := &recordingSink{}
	d := NewDispatcher(outboxRepo, notifications, realtime.NewHub(1, zap.NewNop()), sink,
		DispatcherConfig{PollInterval: time.Hour, BatchSize: 10, MaxAttempts: 2}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	entries, err := outbox.NewBuilder("order", 1).
		Notify(outbox.NotificationPayload{UserID: 5, Type: "order_status", Title: "Order Shipped", Message: "on its way"}).
		Entries()
	require.NoError(t, err)
	require.NoError(t, outboxRepo.Save(context.Background(), entries))
	d.Wake()

	assert.Eventually(t, func() bool {
		count, err := notifications.UnreadCount(context.Background(), 5)
		return err == nil && count == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestInbox_ListAddsRelativeTime(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	service := notification.NewService(mysql.NewNotificationRepository(db))
	inbox := NewInboxUseCase(service)

	require.NoError(t, service.Create(ctx, notification.New(3, notification.TypeOrderStatus, "Order Packed", "packed", "")))
	inbox.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	list, err := inbox.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2h ago", list[0].Time)

	other := notification.New(4, notification.TypeOrderStatus, "x", "y", "")
	require.NoError(t, service.Create(ctx, other))
	assert.ErrorIs(t, inbox.MarkRead(ctx, other.ID, 3), notification.ErrNotOwner)
	assert.ErrorIs(t, inbox.Delete(ctx, 999, 3), notification.ErrNotificationNotFound)

	changed, err := inbox.MarkAllRead(ctx, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)
}
