package order

import (
	"fmt"
	"strconv"
	"time"

	"github.com/boipara/bookstore/internal/domain/notification"
	"github.com/boipara/bookstore/internal/domain/order"
	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/internal/infrastructure/realtime"
)

// Push event names.
const (
	EventOrderCreated   = "order-created"
	EventNewOrder       = "new-order"
	EventOrderUpdate    = "order-update"
	EventOrderCancelled = "order-cancelled"
)

// Domain event names published to external consumers.
const (
	DomainOrderCreated       = "order.created"
	DomainOrderStatusChanged = "order.status_changed"
	DomainOrderCancelled     = "order.cancelled"
)

const aggregateOrder = "order"

type orderCreatedPush struct {
	OrderID uint   `json:"orderId"`
	OrderNo string `json:"orderNo"`
	Status  string `json:"status"`
	Total   int64  `json:"total"`
}

type newOrderPush struct {
	OrderID      uint   `json:"orderId"`
	OrderNo      string `json:"orderNo"`
	CustomerName string `json:"customerName"`
}

type orderUpdatePush struct {
	OrderID   uint      `json:"orderId"`
	OrderNo   string    `json:"orderNo"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type orderEvent struct {
	OrderID uint   `json:"order_id"`
	OrderNo string `json:"order_no"`
	UserID  uint   `json:"user_id"`
	Status  string `json:"status"`
	Total   int64  `json:"total"`
	Sellers []uint `json:"seller_ids"`
}

func orderLink(id uint) string {
	return "/orders/" + uintStr(id)
}

func eventOf(o *order.Order) orderEvent {
	return orderEvent{
		OrderID: o.ID,
		OrderNo: o.OrderNo,
		UserID:  o.UserID,
		Status:  string(o.Status),
		Total:   o.Total,
		Sellers: o.SellerIDs(),
	}
}

// placedEntries: buyer notification, one notification per distinct seller,
// order-created to the buyer and new-order to each seller.
func placedEntries(o *order.Order) ([]*outbox.Entry, error) {
	id := o.ID
	b := outbox.NewBuilder(aggregateOrder, o.ID).
		Notify(outbox.NotificationPayload{
			UserID:  o.UserID,
			Room:    realtime.CustomerRoom(o.UserID),
			Type:    string(notification.TypeOrderPlaced),
			Title:   "Order Placed",
			Message: fmt.Sprintf("Your order %s has been placed successfully.", o.OrderNo),
			Link:    orderLink(o.ID),
			OrderID: &id,
		}).
		Push(realtime.CustomerRoom(o.UserID), EventOrderCreated, orderCreatedPush{
			OrderID: o.ID,
			OrderNo: o.OrderNo,
			Status:  string(o.Status),
			Total:   o.Total,
		})

	for _, sellerID := range o.SellerIDs() {
		b.Notify(outbox.NotificationPayload{
			UserID:  sellerID,
			Room:    realtime.SellerRoom(sellerID),
			Type:    string(notification.TypeNewOrder),
			Title:   "New Order",
			Message: fmt.Sprintf("You have a new order %s from %s.", o.OrderNo, o.CustomerName),
			Link:    "/seller" + orderLink(o.ID),
			OrderID: &id,
		}).Push(realtime.SellerRoom(sellerID), EventNewOrder, newOrderPush{
			OrderID:      o.ID,
			OrderNo:      o.OrderNo,
			CustomerName: o.CustomerName,
		})
	}

	return b.Event(DomainOrderCreated, o.OrderNo, eventOf(o)).Entries()
}

// statusEntries notify the buyer of a status with a message and push order-update.
func statusEntries(o *order.Order) ([]*outbox.Entry, error) {
	id := o.ID
	b := outbox.NewBuilder(aggregateOrder, o.ID)
	if msg, ok := order.MessageFor(o.Status, o.OrderNo); ok {
		b.Notify(outbox.NotificationPayload{
			UserID:  o.UserID,
			Room:    realtime.CustomerRoom(o.UserID),
			Type:    string(notification.TypeOrderStatus),
			Title:   msg.Title,
			Message: msg.Message,
			Link:    orderLink(o.ID),
			OrderID: &id,
		})
	}
	return b.
		Push(realtime.CustomerRoom(o.UserID), EventOrderUpdate, orderUpdatePush{
			OrderID:   o.ID,
			OrderNo:   o.OrderNo,
			Status:    string(o.Status),
			Timestamp: o.UpdatedAt,
		}).
		Event(DomainOrderStatusChanged, o.OrderNo, eventOf(o)).
		Entries()
}

// cancelledEntries notify the buyer and push order-cancelled to the buyer and
// every seller of the order.
func cancelledEntries(o *order.Order) ([]*outbox.Entry, error) {
	id := o.ID
	msg, _ := order.MessageFor(order.StatusCancelled, o.OrderNo)
	push := orderUpdatePush{
		OrderID:   o.ID,
		OrderNo:   o.OrderNo,
		Status:    string(o.Status),
		Timestamp: o.UpdatedAt,
	}

	b := outbox.NewBuilder(aggregateOrder, o.ID).
		Notify(outbox.NotificationPayload{
			UserID:  o.UserID,
			Room:    realtime.CustomerRoom(o.UserID),
			Type:    string(notification.TypeOrderCancelled),
			Title:   msg.Title,
			Message: msg.Message,
			Link:    orderLink(o.ID),
			OrderID: &id,
		}).
		Push(realtime.CustomerRoom(o.UserID), EventOrderCancelled, push)
	for _, sellerID := range o.SellerIDs() {
		b.Push(realtime.SellerRoom(sellerID), EventOrderCancelled, push)
	}
	return b.Event(DomainOrderCancelled, o.OrderNo, eventOf(o)).Entries()
}

func uintStr(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
