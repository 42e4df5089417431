package notification

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeOrderPlaced    Type = "order_placed"
	TypeNewOrder       Type = "new_order"
	TypeOrderStatus    Type = "order_status"
	TypeOrderCancelled Type = "order_cancelled"
	TypeReturnStatus   Type = "return_status"
	TypeReturnApproved Type = "return_approved"
	TypeRefundIssued   Type = "refund_issued"
	TypeBuybackStatus  Type = "buyback_status"
)

// MaxListSize caps how many notifications a user sees.
const MaxListSize = 50

// Notification is a per-user inbox record. Time is derived on read, never stored.
type Notification struct {
	ID        uint
	UserID    uint
	Type      Type
	Title     string
	Message   string
	Link      string
	OrderID   *uint
	ReturnID  *uint
	Read      bool
	CreatedAt time.Time
}

// New creates an unread notification.
func New(userID uint, typ Type, title, message, link string) *Notification {
	return &Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Link:      link,
		CreatedAt: time.Now(),
	}
}

func (n *Notification) IsOwnedBy(userID uint) bool {
	return n.UserID == userID
}

// RelativeTime renders createdAt relative to now:
// "Just now", "5m ago", "3h ago", "2d ago", then an absolute date after a week.
func RelativeTime(now, createdAt time.Time) string {
	d := now.Sub(createdAt)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	default:
		return createdAt.Format("Jan 2, 2006")
	}
}
