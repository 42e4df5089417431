package notification

import (
	"context"
)

// Service is the per-user inbox. Every mutation checks ownership.
type Service interface {
	Create(ctx context.Context, n *Notification) error

	List(ctx context.Context, userID uint) ([]*Notification, error)

	MarkRead(ctx context.Context, id, userID uint) error

	MarkAllRead(ctx context.Context, userID uint) (int64, error)

	Delete(ctx context.Context, id, userID uint) error

	UnreadCount(ctx context.Context, userID uint) (int64, error)
}

type service struct {
	repo Repository
}

// NewService creates the notification service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, n *Notification) error {
	if n.UserID == 0 || n.Title == "" || n.Message == "" {
		return ErrEmptyContent
	}
	return s.repo.Create(ctx, n)
}

func (s *service) List(ctx context.Context, userID uint) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID, MaxListSize)
}

func (s *service) MarkRead(ctx context.Context, id, userID uint) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *service) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, id, userID uint) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *service) owned(ctx context.Context, id, userID uint) (*Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.IsOwnedBy(userID) {
		return nil, ErrNotOwner
	}
	return n, nil
}
