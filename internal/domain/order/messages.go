package order

import "fmt"

// StatusMessage is the buyer-facing text for a status change.
type StatusMessage struct {
	Title   string
	Message string
}

var statusMessages = map[Status]StatusMessage{
	StatusAccepted:  {"Order Accepted", "Your order %s has been accepted by the seller."},
	StatusConfirmed: {"Order Confirmed", "Your order %s is confirmed and being prepared."},
	StatusPacked:    {"Order Packed", "Your order %s has been packed and is ready to ship."},
	StatusShipped:   {"Order Shipped", "Your order %s is on its way."},
	StatusDelivered: {"Order Delivered", "Your order %s has been delivered. Happy reading!"},
	StatusRejected:  {"Order Rejected", "Unfortunately your order %s was rejected. Any reserved stock has been released."},
	StatusCancelled: {"Order Cancelled", "Your order %s has been cancelled."},
}

// MessageFor returns the buyer notification for entering status, or false when the
// status has no buyer-facing message.
func MessageFor(status Status, orderNo string) (StatusMessage, bool) {
	m, ok := statusMessages[status]
	if !ok {
		return StatusMessage{}, false
	}
	return StatusMessage{Title: m.Title, Message: fmt.Sprintf(m.Message, orderNo)}, true
}
