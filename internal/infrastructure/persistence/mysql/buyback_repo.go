package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/boipara/bookstore/internal/domain/buyback"
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

type buybackRepository struct {
	db *gorm.DB
}

// NewBuybackRepository creates the buyback request repository.
func NewBuybackRepository(db *gorm.DB) buyback.Repository {
	return &buybackRepository{db: db}
}

func (r *buybackRepository) Create(ctx context.Context, req *buyback.Request) error {
	model := &BuybackModel{
		UserID:       req.UserID,
		Title:        req.Title,
		Author:       req.Author,
		ISBN:         req.ISBN,
		Category:     req.Category,
		Condition:    req.Condition,
		Description:  req.Description,
		OfferedPrice: req.OfferedPrice,
		Status:       string(req.Status),
		SellingPrice: req.SellingPrice,
		Stock:        req.Stock,
		AdminNotes:   req.AdminNotes,
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "failed to create buyback request")
	}
	req.ID = model.ID
	req.CreatedAt = model.CreatedAt
	req.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *buybackRepository) FindByID(ctx context.Context, id uint) (*buyback.Request, error) {
	var model BuybackModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, buyback.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(err, "failed to load buyback request")
	}
	return toBuybackEntity(&model), nil
}

func (r *buybackRepository) Update(ctx context.Context, req *buyback.Request) error {
	result := dbFrom(ctx, r.db).Model(&BuybackModel{}).
		Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"status":        string(req.Status),
			"selling_price": req.SellingPrice,
			"stock":         req.Stock,
			"admin_notes":   req.AdminNotes,
			"updated_at":    req.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to update buyback request")
	}
	if result.RowsAffected == 0 {
		return buyback.ErrRequestNotFound
	}
	return nil
}

// AdjustStock moves stock and the sold flag in one conditional UPDATE. Map keys
// are assigned in sorted order, so the status CASE reads the pre-update stock on
// both MySQL and SQLite.
func (r *buybackRepository) AdjustStock(ctx context.Context, id uint, delta int) error {
	db := dbFrom(ctx, r.db)
	result := db.Model(&BuybackModel{}).
		Where("id = ?", id).
		Where("stock + ? >= 0", delta).
		Updates(map[string]interface{}{
			"status": gorm.Expr(
				"CASE WHEN status = ? AND stock + ? = 0 THEN ? WHEN status = ? AND stock + ? > 0 THEN ? ELSE status END",
				string(buyback.StatusApproved), delta, string(buyback.StatusSold),
				string(buyback.StatusSold), delta, string(buyback.StatusApproved),
			),
			"stock": gorm.Expr("stock + ?", delta),
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to adjust buyback stock")
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&BuybackModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "failed to load buyback request")
		}
		if count == 0 {
			return buyback.ErrRequestNotFound
		}
		return buyback.ErrInsufficientStock
	}
	return nil
}

func (r *buybackRepository) List(ctx context.Context, filter buyback.ListFilter) ([]*buyback.Request, int64, error) {
	filter.Normalize()

	query := dbFrom(ctx, r.db).Model(&BuybackModel{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.AvailableOnly {
		query = query.Where("status IN ?", []string{string(buyback.StatusApproved), string(buyback.StatusCompleted)}).
			Where("stock > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count buyback requests")
	}

	var models []BuybackModel
	err := query.Order("created_at DESC").
		Order("id DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list buyback requests")
	}

	list := make([]*buyback.Request, len(models))
	for i := range models {
		list[i] = toBuybackEntity(&models[i])
	}
	return list, total, nil
}

func toBuybackEntity(m *BuybackModel) *buyback.Request {
	return &buyback.Request{
		ID:           m.ID,
		UserID:       m.UserID,
		Title:        m.Title,
		Author:       m.Author,
		ISBN:         m.ISBN,
		Category:     m.Category,
		Condition:    m.Condition,
		Description:  m.Description,
		OfferedPrice: m.OfferedPrice,
		Status:       buyback.Status(m.Status),
		SellingPrice: m.SellingPrice,
		Stock:        m.Stock,
		AdminNotes:   m.AdminNotes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
