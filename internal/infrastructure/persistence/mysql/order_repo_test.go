package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boipara/bookstore/internal/domain/order"
)

func newStoredOrder(t *testing.T, repo order.Repository, userID uint, items ...order.OrderItem) *order.Order {
	t.Helper()
	o := order.NewOrder(order.GenerateOrderNo(), userID, items, order.PaymentCOD, order.ShippingAddress{
		FullName: "Rahim", Phone: "01700000000", Address: "Road 1", City: "Dhaka",
	})
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	repo := NewOrderRepository(newTestDB(t))
	ctx := context.Background()

	o := newStoredOrder(t, repo, 1,
		order.OrderItem{BookID: 10, SellerID: 7, Title: "Debi", Quantity: 2, Price: 100_00},
		order.OrderItem{BookID: 11, SellerID: 8, Title: "Himu", Quantity: 1, Price: 50_00},
	)
	require.NotZero(t, o.ID)

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNo, got.OrderNo)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, int64(250_00), got.Subtotal)
	assert.Equal(t, "Dhaka", got.ShippingAddress.City)

	byNo, err := repo.FindByOrderNo(ctx, o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, o.ID, byNo.ID)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	repo := NewOrderRepository(newTestDB(t))
	ctx := context.Background()
	o := newStoredOrder(t, repo, 1, order.OrderItem{BookID: 10, SellerID: 7, Quantity: 1, Price: 100_00})

	require.NoError(t, o.Cancel())
	require.NoError(t, repo.UpdateStatus(ctx, o, order.StatusNew))

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)

	// a second writer that also read "new" loses
	assert.ErrorIs(t, repo.UpdateStatus(ctx, o, order.StatusNew), order.ErrInvalidStatusTransition)
}

func TestOrderRepository_ListBySeller(t *testing.T) {
	repo := NewOrderRepository(newTestDB(t))
	ctx := context.Background()
	newStoredOrder(t, repo, 1, order.OrderItem{BookID: 10, SellerID: 7, Quantity: 1, Price: 100_00})
	newStoredOrder(t, repo, 2,
		order.OrderItem{BookID: 11, SellerID: 8, Quantity: 1, Price: 100_00},
		order.OrderItem{BookID: 10, SellerID: 7, Quantity: 1, Price: 100_00},
	)
	newStoredOrder(t, repo, 2, order.OrderItem{BookID: 11, SellerID: 8, Quantity: 1, Price: 100_00})

	orders, total, err := repo.ListBySeller(ctx, 7, order.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, o := range orders {
		assert.True(t, o.InvolvesSeller(7))
	}

	mine, total, err := repo.ListByUserID(ctx, 2, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, mine, 2)

	all, total, err := repo.ListAll(ctx, order.ListFilter{Status: order.StatusNew})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)
}

func TestOrderRepository_TopBooksSince(t *testing.T) {
	repo := NewOrderRepository(newTestDB(t))
	ctx := context.Background()
	newStoredOrder(t, repo, 1, order.OrderItem{BookID: 10, SellerID: 7, Quantity: 1, Price: 100_00})
	newStoredOrder(t, repo, 1, order.OrderItem{BookID: 11, SellerID: 7, Quantity: 4, Price: 100_00})
	cancelled := newStoredOrder(t, repo, 1, order.OrderItem{BookID: 12, SellerID: 7, Quantity: 9, Price: 100_00})
	require.NoError(t, cancelled.Cancel())
	require.NoError(t, repo.UpdateStatus(ctx, cancelled, order.StatusNew))

	sales, err := repo.TopBooksSince(ctx, time.Now().Add(-time.Hour), 3)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, order.BookSales{BookID: 11, Quantity: 4}, sales[0])
	assert.Equal(t, order.BookSales{BookID: 10, Quantity: 1}, sales[1])
}
