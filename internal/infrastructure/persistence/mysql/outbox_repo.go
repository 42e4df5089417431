package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/boipara/bookstore/internal/domain/outbox"
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates the outbox repository.
func NewOutboxRepository(db *gorm.DB) outbox.Repository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Save(ctx context.Context, entries []*outbox.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	models := make([]*OutboxModel, len(entries))
	for i, e := range entries {
		models[i] = &OutboxModel{
			Kind:          string(e.Kind),
			AggregateType: e.AggregateType,
			AggregateID:   e.AggregateID,
			Payload:       []byte(e.Payload),
			Status:        string(e.Status),
			Attempts:      e.Attempts,
			CreatedAt:     e.CreatedAt,
		}
	}
	if err := dbFrom(ctx, r.db).Create(models).Error; err != nil {
		return apperrors.Wrap(err, "failed to save outbox entries")
	}
	for i, m := range models {
		entries[i].ID = m.ID
	}
	return nil
}

func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]*outbox.Entry, error) {
	var models []OutboxModel
	err := dbFrom(ctx, r.db).
		Where("status = ?", string(outbox.StatusPending)).
		Order("id ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch outbox entries")
	}

	entries := make([]*outbox.Entry, len(models))
	for i, m := range models {
		entries[i] = &outbox.Entry{
			ID:            m.ID,
			Kind:          outbox.Kind(m.Kind),
			AggregateType: m.AggregateType,
			AggregateID:   m.AggregateID,
			Payload:       m.Payload,
			Status:        outbox.Status(m.Status),
			Attempts:      m.Attempts,
			LastError:     m.LastError,
			CreatedAt:     m.CreatedAt,
			DispatchedAt:  m.DispatchedAt,
		}
	}
	return entries, nil
}

func (r *outboxRepository) UpdateResult(ctx context.Context, e *outbox.Entry) error {
	lastError := e.LastError
	if len(lastError) > 500 {
		lastError = lastError[:500]
	}
	err := dbFrom(ctx, r.db).Model(&OutboxModel{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"status":        string(e.Status),
			"attempts":      e.Attempts,
			"last_error":    lastError,
			"dispatched_at": e.DispatchedAt,
		}).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to update outbox entry")
	}
	return nil
}
