package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/boipara/bookstore/internal/domain/order"
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

// orderRepository stores the order aggregate. Items are always written and read
// together with their order.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates the order repository.
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create inserts the order and, through the has-many association, its items.
// Call it inside a transaction so the items and stock moves commit together.
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.Wrap(err, "duplicate order number")
		}
		return apperrors.Wrap(err, "failed to create order")
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	if err := dbFrom(ctx, r.db).Preload("Items").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "failed to load order")
	}
	return toOrderEntity(&model), nil
}

func (r *orderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var model OrderModel
	err := dbFrom(ctx, r.db).Preload("Items").Where("order_no = ?", orderNo).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "failed to load order")
	}
	return toOrderEntity(&model), nil
}

// UpdateStatus is a compare-and-set on the status column, so two concurrent
// transitions from the same state cannot both apply.
func (r *orderRepository) UpdateStatus(ctx context.Context, o *order.Order, from order.Status) error {
	db := dbFrom(ctx, r.db)
	result := db.Model(&OrderModel{}).
		Where("id = ? AND status = ?", o.ID, string(from)).
		Updates(map[string]interface{}{
			"status":       string(o.Status),
			"cancelled_at": o.CancelledAt,
			"updated_at":   o.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&OrderModel{}).Where("id = ?", o.ID).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "failed to load order")
		}
		if count == 0 {
			return order.ErrOrderNotFound
		}
		return order.ErrInvalidStatusTransition
	}
	return nil
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	filter := order.ListFilter{Page: page, PageSize: pageSize}
	filter.Normalize()
	return r.list(dbFrom(ctx, r.db).Model(&OrderModel{}).Where("user_id = ?", userID), filter)
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerID uint, filter order.ListFilter) ([]*order.Order, int64, error) {
	filter.Normalize()
	db := dbFrom(ctx, r.db)
	sub := db.Model(&OrderItemModel{}).Select("order_id").Where("seller_id = ?", sellerID)
	return r.list(db.Model(&OrderModel{}).Where("id IN (?)", sub), filter)
}

func (r *orderRepository) ListAll(ctx context.Context, filter order.ListFilter) ([]*order.Order, int64, error) {
	filter.Normalize()
	return r.list(dbFrom(ctx, r.db).Model(&OrderModel{}), filter)
}

func (r *orderRepository) list(query *gorm.DB, filter order.ListFilter) ([]*order.Order, int64, error) {
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count orders")
	}

	var models []OrderModel
	offset := (filter.Page - 1) * filter.PageSize
	err := query.Preload("Items").
		Order("created_at DESC").
		Order("id DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list orders")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, total, nil
}

// TopBooksSince aggregates sold quantity per book. Rejected and cancelled orders
// do not count.
func (r *orderRepository) TopBooksSince(ctx context.Context, since time.Time, limit int) ([]order.BookSales, error) {
	var rows []struct {
		BookID   uint
		Quantity int
	}
	err := dbFrom(ctx, r.db).
		Table("order_items").
		Select("order_items.book_id AS book_id, SUM(order_items.quantity) AS quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ?", since.UTC()).
		Where("orders.status NOT IN ?", []string{string(order.StatusRejected), string(order.StatusCancelled)}).
		Group("order_items.book_id").
		Order("quantity DESC").
		Order("order_items.book_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate book sales")
	}

	sales := make([]order.BookSales, len(rows))
	for i, row := range rows {
		sales[i] = order.BookSales{BookID: row.BookID, Quantity: row.Quantity}
	}
	return sales, nil
}

// ============================================================
// Mapping
// ============================================================

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			BookID:   item.BookID,
			SellerID: item.SellerID,
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	return &OrderModel{
		OrderNo:       o.OrderNo,
		UserID:        o.UserID,
		Subtotal:      o.Subtotal,
		ShippingFee:   o.ShippingFee,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		ShipFullName:  o.ShippingAddress.FullName,
		ShipPhone:     o.ShippingAddress.Phone,
		ShipAddress:   o.ShippingAddress.Address,
		ShipCity:      o.ShippingAddress.City,
		ShipPostal:    o.ShippingAddress.PostalCode,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		Items:         items,
		CancelledAt:   o.CancelledAt,
	}
}

func toOrderEntity(m *OrderModel) *order.Order {
	items := make([]order.OrderItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = order.OrderItem{
			ID:       item.ID,
			OrderID:  item.OrderID,
			BookID:   item.BookID,
			SellerID: item.SellerID,
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	return &order.Order{
		ID:            m.ID,
		OrderNo:       m.OrderNo,
		UserID:        m.UserID,
		Items:         items,
		Subtotal:      m.Subtotal,
		ShippingFee:   m.ShippingFee,
		Total:         m.Total,
		Status:        order.Status(m.Status),
		PaymentMethod: order.PaymentMethod(m.PaymentMethod),
		ShippingAddress: order.ShippingAddress{
			FullName:   m.ShipFullName,
			Phone:      m.ShipPhone,
			Address:    m.ShipAddress,
			City:       m.ShipCity,
			PostalCode: m.ShipPostal,
		},
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		CustomerPhone: m.CustomerPhone,
		CancelledAt:   m.CancelledAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
