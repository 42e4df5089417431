package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/boipara/bookstore/internal/domain/returns"
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

type returnRepository struct {
	db *gorm.DB
}

// NewReturnRepository creates the return request repository.
func NewReturnRepository(db *gorm.DB) returns.Repository {
	return &returnRepository{db: db}
}

func (r *returnRepository) Create(ctx context.Context, ret *returns.Return) error {
	items := make([]ReturnItemModel, len(ret.Items))
	for i, item := range ret.Items {
		items[i] = ReturnItemModel{
			BookID:   item.BookID,
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}
	model := &ReturnModel{
		OrderID:     ret.OrderID,
		OrderNo:     ret.OrderNo,
		UserID:      ret.UserID,
		SellerID:    ret.SellerID,
		Reason:      ret.Reason,
		Description: ret.Description,
		Status:      string(ret.Status),
		Items:       items,
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "failed to create return")
	}
	ret.ID = model.ID
	ret.CreatedAt = model.CreatedAt
	ret.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *returnRepository) FindByID(ctx context.Context, id uint) (*returns.Return, error) {
	var model ReturnModel
	if err := dbFrom(ctx, r.db).Preload("Items").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, returns.ErrReturnNotFound
		}
		return nil, apperrors.Wrap(err, "failed to load return")
	}
	return toReturnEntity(&model), nil
}

func (r *returnRepository) Update(ctx context.Context, ret *returns.Return) error {
	result := dbFrom(ctx, r.db).Model(&ReturnModel{}).
		Where("id = ?", ret.ID).
		Updates(map[string]interface{}{
			"status":        string(ret.Status),
			"admin_notes":   ret.AdminNotes,
			"refund_amount": ret.RefundAmount,
			"seller_notes":  ret.SellerNotes,
			"refunded_at":   ret.RefundedAt,
			"updated_at":    ret.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to update return")
	}
	if result.RowsAffected == 0 {
		return returns.ErrReturnNotFound
	}
	return nil
}

func (r *returnRepository) HasOpenForOrder(ctx context.Context, orderID uint) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&ReturnModel{}).
		Where("order_id = ?", orderID).
		Where("status NOT IN ?", []string{string(returns.StatusRejected), string(returns.StatusCompleted)}).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check open returns")
	}
	return count > 0, nil
}

func (r *returnRepository) List(ctx context.Context, filter returns.ListFilter) ([]*returns.Return, int64, error) {
	filter.Normalize()

	query := dbFrom(ctx, r.db).Model(&ReturnModel{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count returns")
	}

	var models []ReturnModel
	err := query.Preload("Items").
		Order("created_at DESC").
		Order("id DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list returns")
	}

	list := make([]*returns.Return, len(models))
	for i := range models {
		list[i] = toReturnEntity(&models[i])
	}
	return list, total, nil
}

func toReturnEntity(m *ReturnModel) *returns.Return {
	items := make([]returns.Item, len(m.Items))
	for i, item := range m.Items {
		items[i] = returns.Item{
			BookID:   item.BookID,
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}
	return &returns.Return{
		ID:           m.ID,
		OrderID:      m.OrderID,
		OrderNo:      m.OrderNo,
		UserID:       m.UserID,
		SellerID:     m.SellerID,
		Items:        items,
		Reason:       m.Reason,
		Description:  m.Description,
		Status:       returns.Status(m.Status),
		AdminNotes:   m.AdminNotes,
		RefundAmount: m.RefundAmount,
		SellerNotes:  m.SellerNotes,
		RefundedAt:   m.RefundedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
