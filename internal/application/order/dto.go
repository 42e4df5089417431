package order

import (
	"time"

	"github.com/boipara/bookstore/internal/domain/order"
)

// OrderDTO is the order as the API returns it. Amounts are paisa.
type OrderDTO struct {
	ID              uint               `json:"id"`
	OrderNo         string             `json:"order_no"`
	UserID          uint               `json:"user_id"`
	Items           []OrderItemDTO     `json:"items"`
	Subtotal        int64              `json:"subtotal"`
	ShippingFee     int64              `json:"shipping_fee"`
	Total           int64              `json:"total"`
	Status          string             `json:"status"`
	PaymentMethod   string             `json:"payment_method"`
	ShippingAddress ShippingAddressDTO `json:"shipping_address"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerPhone   string             `json:"customer_phone,omitempty"`
	CancelledAt     *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type OrderItemDTO struct {
	BookID    uint   `json:"book_id"`
	SellerID  uint   `json:"seller_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	LineTotal int64  `json:"line_total"`
}

type ShippingAddressDTO struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code,omitempty"`
}

// PageResult is one page of orders.
type PageResult struct {
	Orders   []OrderDTO `json:"orders"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

func ToOrderDTO(o *order.Order) OrderDTO {
	items := make([]OrderItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemDTO{
			BookID:    item.BookID,
			SellerID:  item.SellerID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			Price:     item.Price,
			LineTotal: item.LineTotal(),
		}
	}
	return OrderDTO{
		ID:            o.ID,
		OrderNo:       o.OrderNo,
		UserID:        o.UserID,
		Items:         items,
		Subtotal:      o.Subtotal,
		ShippingFee:   o.ShippingFee,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		ShippingAddress: ShippingAddressDTO{
			FullName:   o.ShippingAddress.FullName,
			Phone:      o.ShippingAddress.Phone,
			Address:    o.ShippingAddress.Address,
			City:       o.ShippingAddress.City,
			PostalCode: o.ShippingAddress.PostalCode,
		},
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		CancelledAt:   o.CancelledAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toPageResult(orders []*order.Order, total int64, page, pageSize int) *PageResult {
	dtos := make([]OrderDTO, len(orders))
	for i, o := range orders {
		dtos[i] = ToOrderDTO(o)
	}
	return &PageResult{Orders: dtos, Total: total, Page: page, PageSize: pageSize}
}
