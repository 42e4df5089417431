package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/boipara/bookstore/internal/domain/notification"
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates the notification repository.
func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	model := &NotificationModel{
		UserID:   n.UserID,
		Type:     string(n.Type),
		Title:    n.Title,
		Message:  n.Message,
		Link:     n.Link,
		OrderID:  n.OrderID,
		ReturnID: n.ReturnID,
		Read:     n.Read,
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "failed to create notification")
	}
	n.ID = model.ID
	n.CreatedAt = model.CreatedAt
	return nil
}

func (r *notificationRepository) FindByID(ctx context.Context, id uint) (*notification.Notification, error) {
	var model NotificationModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notification.ErrNotificationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to load notification")
	}
	return toNotificationEntity(&model), nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]*notification.Notification, error) {
	var models []NotificationModel
	err := dbFrom(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list notifications")
	}

	list := make([]*notification.Notification, len(models))
	for i := range models {
		list[i] = toNotificationEntity(&models[i])
	}
	return list, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint) error {
	err := dbFrom(ctx, r.db).Model(&NotificationModel{}).
		Where("id = ?", id).
		Update("is_read", true).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to mark notification read")
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	result := dbFrom(ctx, r.db).Model(&NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "failed to mark notifications read")
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&NotificationModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to delete notification")
	}
	if result.RowsAffected == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count notifications")
	}
	return count, nil
}

func toNotificationEntity(m *NotificationModel) *notification.Notification {
	return &notification.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      notification.Type(m.Type),
		Title:     m.Title,
		Message:   m.Message,
		Link:      m.Link,
		OrderID:   m.OrderID,
		ReturnID:  m.ReturnID,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}
