package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boipara/bookstore/internal/domain/buyback"
	"github.com/boipara/bookstore/internal/domain/notification"
	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/internal/domain/returns"
)

func TestNotificationRepository(t *testing.T) {
	repo := NewNotificationRepository(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, notification.New(1, notification.TypeOrderStatus, "Order Shipped", "on its way", "/orders/1")))
	}
	require.NoError(t, repo.Create(ctx, notification.New(2, notification.TypeNewOrder, "New Order", "BP1", "")))

	list, err := repo.ListByUser(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Greater(t, list[0].ID, list[1].ID)

	require.NoError(t, repo.MarkRead(ctx, list[0].ID))
	unread, err := repo.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	changed, err := repo.MarkAllRead(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	unread, err = repo.CountUnread(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread, "other users are untouched")

	require.NoError(t, repo.Delete(ctx, list[0].ID))
	_, err = repo.FindByID(ctx, list[0].ID)
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
}

func TestOutboxRepository(t *testing.T) {
	repo := NewOutboxRepository(newTestDB(t))
	ctx := context.Background()

	entries, err := outbox.NewBuilder("order", 1).
		Push("customer-1", "order-created", map[string]string{"orderNo": "BP1"}).
		Event("order.created", "BP1", map[string]int{"items": 1}).
		Entries()
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, entries))

	pending, err := repo.FetchPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, outbox.KindPush, pending[0].Kind)

	var push outbox.PushPayload
	require.NoError(t, json.Unmarshal(pending[0].Payload, &push))
	assert.Equal(t, "customer-1", push.Room)

	pending[0].MarkDispatched()
	require.NoError(t, repo.UpdateResult(ctx, pending[0]))
	pending[1].MarkFailed(errors.New("sink down"), 1)
	require.NoError(t, repo.UpdateResult(ctx, pending[1]))

	pending, err = repo.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReturnRepository(t *testing.T) {
	repo := NewReturnRepository(newTestDB(t))
	ctx := context.Background()

	ret := returns.New(5, "BP5", 1, 7, []returns.Item{{BookID: 10, Title: "Debi", Quantity: 1, Price: 150_00}}, "Damaged", "torn cover")
	require.NoError(t, repo.Create(ctx, ret))

	open, err := repo.HasOpenForOrder(ctx, 5)
	require.NoError(t, err)
	assert.True(t, open)

	require.NoError(t, ret.AdminTransition(returns.StatusApproved, "ok"))
	require.NoError(t, ret.IssueRefund(7, 0, "refunded"))
	require.NoError(t, repo.Update(ctx, ret))

	got, err := repo.FindByID(ctx, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, returns.StatusRefundIssued, got.Status)
	assert.Equal(t, int64(150_00), got.RefundAmount)
	assert.Len(t, got.Items, 1)

	list, total, err := repo.List(ctx, returns.ListFilter{SellerID: 7})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	_, total, err = repo.List(ctx, returns.ListFilter{SellerID: 8})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestBuybackRepository_AdjustStock(t *testing.T) {
	repo := NewBuybackRepository(newTestDB(t))
	ctx := context.Background()

	req := buyback.NewRequest(1, "Shesher Kobita", "Tagore", "", "Fiction", "used", "", 80_00)
	require.NoError(t, repo.Create(ctx, req))
	require.NoError(t, req.Approve(120_00, 2, "fine copy"))
	require.NoError(t, repo.Update(ctx, req))

	t.Run("partial acquire keeps approved", func(t *testing.T) {
		require.NoError(t, repo.AdjustStock(ctx, req.ID, -1))
		got, err := repo.FindByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Stock)
		assert.Equal(t, buyback.StatusApproved, got.Status)
	})

	t.Run("overdraw is refused", func(t *testing.T) {
		assert.ErrorIs(t, repo.AdjustStock(ctx, req.ID, -2), buyback.ErrInsufficientStock)
	})

	t.Run("last unit marks sold", func(t *testing.T) {
		require.NoError(t, repo.AdjustStock(ctx, req.ID, -1))
		got, err := repo.FindByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Stock)
		assert.Equal(t, buyback.StatusSold, got.Status)
	})

	t.Run("compensation reopens", func(t *testing.T) {
		require.NoError(t, repo.AdjustStock(ctx, req.ID, 1))
		got, err := repo.FindByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Stock)
		assert.Equal(t, buyback.StatusApproved, got.Status)
	})

	t.Run("available listing", func(t *testing.T) {
		list, total, err := repo.List(ctx, buyback.ListFilter{AvailableOnly: true})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, req.ID, list[0].ID)
	})

	assert.ErrorIs(t, repo.AdjustStock(ctx, 9999, -1), buyback.ErrRequestNotFound)
}
