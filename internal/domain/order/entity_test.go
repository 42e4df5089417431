package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(status Status) *Order {
	o := NewOrder("BP1", 1, []OrderItem{
		{BookID: 10, SellerID: 7, Quantity: 2, Price: 100_00},
	}, PaymentCOD, ShippingAddress{FullName: "Rahim", Phone: "017", Address: "Road 1", City: "Dhaka"})
	o.Status = status
	return o
}

func TestNewOrder_Totals(t *testing.T) {
	tests := []struct {
		name     string
		items    []OrderItem
		subtotal int64
		shipping int64
	}{
		{"below threshold pays shipping", []OrderItem{{Quantity: 2, Price: 100_00}}, 200_00, 50_00},
		{"exactly threshold pays shipping", []OrderItem{{Quantity: 5, Price: 100_00}}, 500_00, 50_00},
		{"above threshold ships free", []OrderItem{{Quantity: 1, Price: 500_01}}, 500_01, 0},
		{"multiple lines", []OrderItem{{Quantity: 1, Price: 300_00}, {Quantity: 3, Price: 100_00}}, 600_00, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrder("BP1", 1, tt.items, PaymentCOD, ShippingAddress{})
			assert.Equal(t, tt.subtotal, o.Subtotal)
			assert.Equal(t, tt.shipping, o.ShippingFee)
			assert.Equal(t, tt.subtotal+tt.shipping, o.Total)
			assert.Equal(t, StatusNew, o.Status)
		})
	}
}

func TestOrder_TransitionTo(t *testing.T) {
	flow := []Status{StatusAccepted, StatusConfirmed, StatusPacked, StatusShipped, StatusDelivered}
	o := newTestOrder(StatusNew)
	for _, next := range flow {
		require.NoError(t, o.TransitionTo(next), "to %s", next)
	}
	assert.True(t, o.Status.IsTerminal())

	assert.ErrorIs(t, o.TransitionTo(StatusShipped), ErrInvalidStatusTransition)
}

func TestOrder_TransitionTo_Rejected(t *testing.T) {
	for _, from := range []Status{StatusNew, StatusAccepted} {
		o := newTestOrder(from)
		assert.NoError(t, o.TransitionTo(StatusRejected), "from %s", from)
	}
	for _, from := range []Status{StatusConfirmed, StatusPacked, StatusShipped, StatusDelivered} {
		o := newTestOrder(from)
		assert.ErrorIs(t, o.TransitionTo(StatusRejected), ErrInvalidStatusTransition, "from %s", from)
	}
}

func TestOrder_TransitionTo_CannotCancelThroughStatus(t *testing.T) {
	o := newTestOrder(StatusNew)
	assert.ErrorIs(t, o.TransitionTo(StatusCancelled), ErrInvalidStatusTransition)
}

func TestOrder_Cancel(t *testing.T) {
	for _, from := range []Status{StatusNew, StatusPlaced, StatusPending, StatusProcessing, StatusAccepted, StatusPacked} {
		o := newTestOrder(from)
		require.NoError(t, o.Cancel(), "from %s", from)
		assert.Equal(t, StatusCancelled, o.Status)
		assert.NotNil(t, o.CancelledAt)
	}

	for _, from := range []Status{StatusConfirmed, StatusShipped, StatusDelivered, StatusRejected, StatusCancelled} {
		o := newTestOrder(from)
		assert.ErrorIs(t, o.Cancel(), ErrNotCancellable, "from %s", from)
	}
}

func TestOrder_SellerIDs_Distinct(t *testing.T) {
	o := NewOrder("BP1", 1, []OrderItem{
		{BookID: 1, SellerID: 7, Quantity: 1, Price: 10},
		{BookID: 2, SellerID: 8, Quantity: 1, Price: 10},
		{BookID: 3, SellerID: 7, Quantity: 1, Price: 10},
	}, PaymentCOD, ShippingAddress{})

	assert.Equal(t, []uint{7, 8}, o.SellerIDs())
	assert.True(t, o.InvolvesSeller(8))
	assert.False(t, o.InvolvesSeller(9))
	assert.Len(t, o.ItemsOf(7), 2)
}

func TestMessageFor(t *testing.T) {
	m, ok := MessageFor(StatusShipped, "BP42")
	require.True(t, ok)
	assert.Equal(t, "Order Shipped", m.Title)
	assert.Contains(t, m.Message, "BP42")

	_, ok = MessageFor(StatusNew, "BP42")
	assert.False(t, ok)
}

func TestGenerateOrderNo(t *testing.T) {
	no := GenerateOrderNo()
	assert.Regexp(t, `^BP\d{20}$`, no)
}
