package order

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/domain/order"
	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/internal/domain/user"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/mysql"
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

type countingWaker struct{ n int }

func (w *countingWaker) Wake() { w.n++ }

type fixture struct {
	books  book.Repository
	orders order.Repository
	users  user.Repository
	outbox outbox.Repository
	waker  *countingWaker

	create *CreateOrderUseCase
	update *UpdateStatusUseCase
	cancel *CancelOrderUseCase
	query  *QueryOrdersUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := mysql.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{
		books:  mysql.NewBookRepository(db),
		orders: mysql.NewOrderRepository(db),
		users:  mysql.NewUserRepository(db),
		outbox: mysql.NewOutboxRepository(db),
		waker:  &countingWaker{},
	}
	tx := mysql.NewTxManager(db)
	log := zap.NewNop()
	f.create = NewCreateOrderUseCase(f.orders, f.books, f.users, f.outbox, tx, f.waker, log)
	f.update = NewUpdateStatusUseCase(f.orders, f.books, f.outbox, tx, f.waker, log)
	f.cancel = NewCancelOrderUseCase(f.orders, f.books, f.outbox, tx, f.waker, log)
	f.query = NewQueryOrdersUseCase(f.orders)
	return f
}

func (f *fixture) user(t *testing.T, email string, role user.Role) *user.User {
	t.Helper()
	u := user.NewUser(email, "hash", "User "+email, role)
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) book(t *testing.T, sellerID uint, title string, price int64, stock int) *book.Book {
	t.Helper()
	b := book.NewBook(sellerID, title, "Author", "", "Fiction", price, price, stock, book.ConditionNew)
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

func (f *fixture) stock(t *testing.T, id uint) int {
	t.Helper()
	b, err := f.books.FindByID(context.Background(), id)
	require.NoError(t, err)
	return b.Stock
}

func (f *fixture) pending(t *testing.T) []*outbox.Entry {
	t.Helper()
	entries, err := f.outbox.FetchPending(context.Background(), 100)
	require.NoError(t, err)
	return entries
}

func address() ShippingAddressDTO {
	return ShippingAddressDTO{FullName: "Rahim Uddin", Phone: "01700000000", Address: "House 4, Road 2", City: "Dhaka"}
}

func countKinds(entries []*outbox.Entry) map[outbox.Kind]int {
	counts := make(map[outbox.Kind]int)
	for _, e := range entries {
		counts[e.Kind]++
	}
	return counts
}

func notificationTypes(t *testing.T, entries []*outbox.Entry) map[string][]uint {
	t.Helper()
	byType := make(map[string][]uint)
	for _, e := range entries {
		if e.Kind != outbox.KindNotification {
			continue
		}
		var p outbox.NotificationPayload
		require.NoError(t, json.Unmarshal(e.Payload, &p))
		byType[p.Type] = append(byType[p.Type], p.UserID)
	}
	return byType
}

func pushEvents(t *testing.T, entries []*outbox.Entry) []string {
	t.Helper()
	var events []string
	for _, e := range entries {
		if e.Kind != outbox.KindPush {
			continue
		}
		var p outbox.PushPayload
		require.NoError(t, json.Unmarshal(e.Payload, &p))
		events = append(events, p.Event+"@"+p.Room)
	}
	return events
}

func TestCreateOrder_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.user(t, "buyer@example.com", user.RoleCustomer)
	seller := f.user(t, "seller@example.com", user.RoleSeller)
	b1 := f.book(t, seller.ID, "Aparajito", 100_00, 5)

	got, err := f.create.Execute(ctx, CreateOrderRequest{
		UserID:          buyer.ID,
		Items:           []CreateOrderItem{{BookID: b1.ID, Quantity: 2}},
		PaymentMethod:   "cod",
		ShippingAddress: address(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(200_00), got.Subtotal)
	assert.Equal(t, int64(50_00), got.ShippingFee)
	assert.Equal(t, int64(250_00), got.Total)
	assert.Equal(t, "new", got.Status)
	assert.Equal(t, buyer.Name, got.CustomerName)
	assert.Equal(t, 3, f.stock(t, b1.ID))
	assert.Equal(t, 1, f.waker.n)

	entries := f.pending(t)
	kinds := countKinds(entries)
	assert.Equal(t, 2, kinds[outbox.KindNotification])
	assert.Equal(t, 2, kinds[outbox.KindPush])
	assert.Equal(t, 1, kinds[outbox.KindEvent])

	types := notificationTypes(t, entries)
	assert.Equal(t, []uint{buyer.ID}, types["order_placed"])
	assert.Equal(t, []uint{seller.ID}, types["new_order"])

	assert.ElementsMatch(t, []string{
		"order-created@customer-" + uintStr(buyer.ID),
		"new-order@seller-" + uintStr(seller.ID),
	}, pushEvents(t, entries))
}

func TestCreateOrder_InsufficientStockMutatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.user(t, "buyer@example.com", user.RoleCustomer)
	seller := f.user(t, "seller@example.com", user.RoleSeller)
	plenty := f.book(t, seller.ID, "Plenty", 100_00, 10)
	scarce := f.book(t, seller.ID, "Scarce", 100_00, 1)

	_, err := f.create.Execute(ctx, CreateOrderRequest{
		UserID: buyer.ID,
		Items: []CreateOrderItem{
			{BookID: plenty.ID, Quantity: 3},
			{BookID: scarce.ID, Quantity: 2},
		},
		ShippingAddress: address(),
	})
	assert.ErrorIs(t, err, book.ErrInsufficientStock)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInsufficientStock))

	assert.Equal(t, 10, f.stock(t, plenty.ID))
	assert.Equal(t, 1, f.stock(t, scarce.ID))
	assert.Empty(t, f.pending(t))
	assert.Zero(t, f.waker.n)

	all, err := f.query.ListAll(ctx, order.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, all.Total)
}

func TestCreateOrder_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.user(t, "buyer@example.com", user.RoleCustomer)
	seller := f.user(t, "seller@example.com", user.RoleSeller)
	b := f.book(t, seller.ID, "Book", 100_00, 5)

	tests := []struct {
		name string
		req  CreateOrderRequest
		want error
	}{
		{"empty cart", CreateOrderRequest{UserID: buyer.ID, ShippingAddress: address()}, order.ErrInvalidOrderItems},
		{"zero quantity", CreateOrderRequest{UserID: buyer.ID, Items: []CreateOrderItem{{BookID: b.ID}}, ShippingAddress: address()}, order.ErrInvalidQuantity},
		{"unknown book", CreateOrderRequest{UserID: buyer.ID, Items: []CreateOrderItem{{BookID: 999, Quantity: 1}}, ShippingAddress: address()}, book.ErrBookNotFound},
		{"bad payment", CreateOrderRequest{UserID: buyer.ID, Items: []CreateOrderItem{{BookID: b.ID, Quantity: 1}}, PaymentMethod: "cheque", ShippingAddress: address()}, order.ErrInvalidPaymentMethod},
		{"missing address", CreateOrderRequest{UserID: buyer.ID, Items: []CreateOrderItem{{BookID: b.ID, Quantity: 1}}}, order.ErrInvalidAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 5, f.stock(t, b.ID))
}

func TestCreateOrder_OneNotificationPerDistinctSeller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.user(t, "buyer@example.com", user.RoleCustomer)
	sellerA := f.user(t, "a@example.com", user.RoleSeller)
	sellerB := f.user(t, "b@example.com", user.RoleSeller)
	a1 := f.book(t, sellerA.ID, "A1", 200_00, 5)
	a2 := f.book(t, sellerA.ID, "A2", 200_00, 5)
	b1 := f.book(t, sellerB.ID, "B1", 200_00, 5)

	got, err := f.create.Execute(ctx, CreateOrderRequest{
		UserID: buyer.ID,
		Items: []CreateOrderItem{
			{BookID: a1.ID, Quantity: 1},
			{BookID: a2.ID, Quantity: 1},
			{BookID: b1.ID, Quantity: 1},
			{BookID: a1.ID, Quantity: 1},
		},
		ShippingAddress: address(),
	})
	require.NoError(t, err)
	assert.Len(t, got.Items, 3, "duplicate lines merge")
	assert.Equal(t, int64(0), got.ShippingFee, "800 taka ships free")
	assert.Equal(t, 3, f.stock(t, a1.ID))

	types := notificationTypes(t, f.pending(t))
	assert.ElementsMatch(t, []uint{sellerA.ID, sellerB.ID}, types["new_order"])
	assert.Len(t, types["order_placed"], 1)
}

func TestCancelOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.user(t, "buyer@example.com", user.RoleCustomer)
	stranger := f.user(t, "x@example.com", user.RoleCustomer)
	seller := f.user(t, "seller@example.com", user.RoleSeller)
	b := f.book(t, seller.ID, "Book", 100_00, 5)

	created, err := f.create.Execute(ctx, CreateOrderRequest{
		UserID: buyer.ID, Items: []CreateOrderItem{{BookID: b.ID, Quantity: 2}}, ShippingAddress: address(),
	})
	require.NoError(t, err)
	require.Equal(t, 3, f.stock(t, b.ID))

	t.Run("only the buyer", func(t *testing.T) {
		_, err := f.cancel.Execute(ctx, created.ID, stranger.ID)
		assert.ErrorIs(t, err, order.ErrNotOrderOwner)
	})

	before := len(f.pending(t))
	cancelled, err := f.cancel.Execute(ctx, created.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, 5, f.stock(t, b.ID))

	entries := f.pending(t)[before:]
	assert.ElementsMatch(t, []string{
		"order-cancelled@customer-" + uintStr(buyer.ID),
		"order-cancelled@seller-" + uintStr(seller.ID),
	}, pushEvents(t, entries))
	assert.Equal(t, []uint{buyer.ID}, notificationTypes(t, entries)["order_cancelled"])

	t.Run("second cancel is an invalid state", func(t *testing.T) {
		_, err := f.cancel.Execute(ctx, created.ID, buyer.ID)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidState))
		assert.Equal(t, 5, f.stock(t, b.ID))
	})
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.user(t, "buyer@example.com", user.RoleCustomer)
	seller := f.user(t, "seller@example.com", user.RoleSeller)
	other := f.user(t, "other@example.com", user.RoleSeller)
	admin := f.user(t, "admin@example.com", user.RoleAdmin)
	b := f.book(t, seller.ID, "Book", 100_00, 5)

	place := func() *OrderDTO {
		o, err := f.create.Execute(ctx, CreateOrderRequest{
			UserID: buyer.ID, Items: []CreateOrderItem{{BookID: b.ID, Quantity: 1}}, ShippingAddress: address(),
		})
		require.NoError(t, err)
		return o
	}

	t.Run("seller without items is forbidden", func(t *testing.T) {
		o := place()
		_, err := f.update.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, ActorID: other.ID, ActorRole: user.RoleSeller, Status: "accepted"})
		assert.ErrorIs(t, err, order.ErrNotOrderSeller)
		_, err = f.update.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, ActorID: buyer.ID, ActorRole: user.RoleCustomer, Status: "accepted"})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("full flow notifies the buyer", func(t *testing.T) {
		o := place()
		before := len(f.pending(t))
		for _, s := range []string{"accepted", "confirmed", "packed", "shipped", "delivered"} {
			got, err := f.update.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, ActorID: seller.ID, ActorRole: user.RoleSeller, Status: s})
			require.NoError(t, err, s)
			assert.Equal(t, s, got.Status)
		}
		entries := f.pending(t)[before:]
		assert.Len(t, notificationTypes(t, entries)["order_status"], 5)
		assert.Len(t, pushEvents(t, entries), 5)

		_, err := f.update.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, ActorID: admin.ID, ActorRole: user.RoleAdmin, Status: "shipped"})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	})

	t.Run("rejection restores stock", func(t *testing.T) {
		o := place()
		stock := f.stock(t, b.ID)
		_, err := f.update.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, ActorID: admin.ID, ActorRole: user.RoleAdmin, Status: "rejected"})
		require.NoError(t, err)
		assert.Equal(t, stock+1, f.stock(t, b.ID))
	})

	t.Run("cancelled only through cancel", func(t *testing.T) {
		o := place()
		_, err := f.update.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, ActorID: admin.ID, ActorRole: user.RoleAdmin, Status: "cancelled"})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
		_, err = f.update.Execute(ctx, UpdateStatusRequest{OrderID: o.ID, ActorID: admin.ID, ActorRole: user.RoleAdmin, Status: "teleported"})
		assert.ErrorIs(t, err, order.ErrInvalidStatus)
	})
}

func TestQueryOrders_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.user(t, "buyer@example.com", user.RoleCustomer)
	stranger := f.user(t, "x@example.com", user.RoleCustomer)
	seller := f.user(t, "seller@example.com", user.RoleSeller)
	other := f.user(t, "other@example.com", user.RoleSeller)
	admin := f.user(t, "admin@example.com", user.RoleAdmin)
	b := f.book(t, seller.ID, "Book", 100_00, 5)

	o, err := f.create.Execute(ctx, CreateOrderRequest{
		UserID: buyer.ID, Items: []CreateOrderItem{{BookID: b.ID, Quantity: 1}}, ShippingAddress: address(),
	})
	require.NoError(t, err)

	for _, viewer := range []*user.User{buyer, seller, admin} {
		_, err := f.query.Get(ctx, o.ID, viewer.ID, viewer.Role)
		assert.NoError(t, err, viewer.Email)
	}
	for _, viewer := range []*user.User{stranger, other} {
		_, err := f.query.Get(ctx, o.ID, viewer.ID, viewer.Role)
		assert.ErrorIs(t, err, apperrors.ErrForbidden, viewer.Email)
	}

	mine, err := f.query.ListForSeller(ctx, seller.ID, order.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.Total)

	theirs, err := f.query.ListForSeller(ctx, other.ID, order.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, theirs.Total)

	_, err = f.query.ListAll(ctx, order.ListFilter{Status: "bogus"})
	assert.ErrorIs(t, err, order.ErrInvalidStatus)
}
