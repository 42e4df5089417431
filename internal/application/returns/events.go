package returns

import (
	"strconv"

	"github.com/boipara/bookstore/internal/domain/notification"
	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/internal/domain/returns"
	"github.com/boipara/bookstore/internal/infrastructure/realtime"
)

const (
	EventReturnUpdate = "return-update"

	DomainReturnRequested     = "return.requested"
	DomainReturnStatusChanged = "return.status_changed"
)

const aggregateReturn = "return"

type returnUpdatePush struct {
	ReturnID     uint   `json:"returnId"`
	OrderID      uint   `json:"orderId"`
	OrderNo      string `json:"orderNo"`
	Status       string `json:"status"`
	RefundAmount int64  `json:"refundAmount,omitempty"`
}

type returnEvent struct {
	ReturnID     uint   `json:"return_id"`
	OrderID      uint   `json:"order_id"`
	UserID       uint   `json:"user_id"`
	SellerID     uint   `json:"seller_id"`
	Status       string `json:"status"`
	RefundAmount int64  `json:"refund_amount"`
}

func returnLink(id uint) string {
	return "/returns/" + strconv.FormatUint(uint64(id), 10)
}

func pushOf(r *returns.Return) returnUpdatePush {
	return returnUpdatePush{
		ReturnID:     r.ID,
		OrderID:      r.OrderID,
		OrderNo:      r.OrderNo,
		Status:       string(r.Status),
		RefundAmount: r.RefundAmount,
	}
}

func eventOf(r *returns.Return) returnEvent {
	return returnEvent{
		ReturnID:     r.ID,
		OrderID:      r.OrderID,
		UserID:       r.UserID,
		SellerID:     r.SellerID,
		Status:       string(r.Status),
		RefundAmount: r.RefundAmount,
	}
}

func requestedEntries(r *returns.Return) ([]*outbox.Entry, error) {
	return outbox.NewBuilder(aggregateReturn, r.ID).
		Event(DomainReturnRequested, r.OrderNo, eventOf(r)).
		Entries()
}

// statusEntries notify the buyer of the new status; an approval also asks the
// seller to refund. Both sides get a return-update push.
func statusEntries(r *returns.Return) ([]*outbox.Entry, error) {
	id, orderID := r.ID, r.OrderID
	b := outbox.NewBuilder(aggregateReturn, r.ID)

	if title, msg, ok := returns.BuyerMessage(r.Status, r.OrderNo); ok {
		typ := notification.TypeReturnStatus
		if r.Status == returns.StatusRefundIssued {
			typ = notification.TypeRefundIssued
		}
		b.Notify(outbox.NotificationPayload{
			UserID:   r.UserID,
			Room:     realtime.CustomerRoom(r.UserID),
			Type:     string(typ),
			Title:    title,
			Message:  msg,
			Link:     returnLink(r.ID),
			OrderID:  &orderID,
			ReturnID: &id,
		})
	}
	if r.Status == returns.StatusApproved {
		title, msg := returns.SellerApprovalMessage(r.OrderNo)
		b.Notify(outbox.NotificationPayload{
			UserID:   r.SellerID,
			Room:     realtime.SellerRoom(r.SellerID),
			Type:     string(notification.TypeReturnApproved),
			Title:    title,
			Message:  msg,
			Link:     "/seller" + returnLink(r.ID),
			OrderID:  &orderID,
			ReturnID: &id,
		})
	}

	return b.
		Push(realtime.CustomerRoom(r.UserID), EventReturnUpdate, pushOf(r)).
		Push(realtime.SellerRoom(r.SellerID), EventReturnUpdate, pushOf(r)).
		Event(DomainReturnStatusChanged, r.OrderNo, eventOf(r)).
		Entries()
}
