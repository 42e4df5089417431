package notification

import (
	"context"
	"time"

	"github.com/boipara/bookstore/internal/domain/notification"
)

// NotificationDTO carries a display time computed at read.
type NotificationDTO struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	OrderID   *uint     `json:"order_id,omitempty"`
	ReturnID  *uint     `json:"return_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
	Time      string    `json:"time"`
}

func ToNotificationDTO(n *notification.Notification, now time.Time) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		OrderID:   n.OrderID,
		ReturnID:  n.ReturnID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
		Time:      notification.RelativeTime(now, n.CreatedAt),
	}
}

// InboxUseCase is the user-facing side of notifications.
type InboxUseCase struct {
	service notification.Service
	now     func() time.Time
}

// NewInboxUseCase creates the notification inbox use case.
func NewInboxUseCase(service notification.Service) *InboxUseCase {
	return &InboxUseCase{service: service, now: time.Now}
}

func (uc *InboxUseCase) List(ctx context.Context, userID uint) ([]NotificationDTO, error) {
	list, err := uc.service.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	dtos := make([]NotificationDTO, len(list))
	for i, n := range list {
		dtos[i] = ToNotificationDTO(n, now)
	}
	return dtos, nil
}

func (uc *InboxUseCase) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return uc.service.UnreadCount(ctx, userID)
}

func (uc *InboxUseCase) MarkRead(ctx context.Context, id, userID uint) error {
	return uc.service.MarkRead(ctx, id, userID)
}

func (uc *InboxUseCase) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return uc.service.MarkAllRead(ctx, userID)
}

func (uc *InboxUseCase) Delete(ctx context.Context, id, userID uint) error {
	return uc.service.Delete(ctx, id, userID)
}
