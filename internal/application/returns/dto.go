package returns

import (
	"time"

	"github.com/boipara/bookstore/internal/domain/returns"
)

type ReturnDTO struct {
	ID           uint            `json:"id"`
	OrderID      uint            `json:"order_id"`
	OrderNo      string          `json:"order_no"`
	UserID       uint            `json:"user_id"`
	SellerID     uint            `json:"seller_id"`
	Items        []ReturnItemDTO `json:"items"`
	ItemsTotal   int64           `json:"items_total"`
	Reason       string          `json:"reason"`
	Description  string          `json:"description,omitempty"`
	Status       string          `json:"status"`
	AdminNotes   string          `json:"admin_notes,omitempty"`
	RefundAmount int64           `json:"refund_amount"`
	SellerNotes  string          `json:"seller_notes,omitempty"`
	RefundedAt   *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type ReturnItemDTO struct {
	BookID   uint   `json:"book_id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type PageResult struct {
	Returns  []ReturnDTO `json:"returns"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func ToReturnDTO(r *returns.Return) ReturnDTO {
	items := make([]ReturnItemDTO, len(r.Items))
	for i, item := range r.Items {
		items[i] = ReturnItemDTO{BookID: item.BookID, Title: item.Title, Quantity: item.Quantity, Price: item.Price}
	}
	return ReturnDTO{
		ID:           r.ID,
		OrderID:      r.OrderID,
		OrderNo:      r.OrderNo,
		UserID:       r.UserID,
		SellerID:     r.SellerID,
		Items:        items,
		ItemsTotal:   r.ItemsTotal(),
		Reason:       r.Reason,
		Description:  r.Description,
		Status:       string(r.Status),
		AdminNotes:   r.AdminNotes,
		RefundAmount: r.RefundAmount,
		SellerNotes:  r.SellerNotes,
		RefundedAt:   r.RefundedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
