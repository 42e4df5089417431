package buyback

import (
	"time"

	"github.com/boipara/bookstore/internal/domain/buyback"
)

type RequestDTO struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	ISBN         string    `json:"isbn,omitempty"`
	Category     string    `json:"category,omitempty"`
	Condition    string    `json:"condition,omitempty"`
	Description  string    `json:"description,omitempty"`
	OfferedPrice int64     `json:"offered_price"`
	Status       string    `json:"status"`
	SellingPrice int64     `json:"selling_price,omitempty"`
	Stock        int       `json:"stock"`
	AdminNotes   string    `json:"admin_notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PageResult struct {
	Requests []RequestDTO `json:"requests"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// AcquireResult is the seller's new listing and what is left of the request.
type AcquireResult struct {
	BookID   uint       `json:"book_id"`
	Quantity int        `json:"quantity"`
	Request  RequestDTO `json:"request"`
}

func ToRequestDTO(r *buyback.Request) RequestDTO {
	return RequestDTO{
		ID:           r.ID,
		UserID:       r.UserID,
		Title:        r.Title,
		Author:       r.Author,
		ISBN:         r.ISBN,
		Category:     r.Category,
		Condition:    r.Condition,
		Description:  r.Description,
		OfferedPrice: r.OfferedPrice,
		Status:       string(r.Status),
		SellingPrice: r.SellingPrice,
		Stock:        r.Stock,
		AdminNotes:   r.AdminNotes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toPageResult(list []*buyback.Request, total int64, filter buyback.ListFilter) *PageResult {
	dtos := make([]RequestDTO, len(list))
	for i, r := range list {
		dtos[i] = ToRequestDTO(r)
	}
	return &PageResult{Requests: dtos, Total: total, Page: filter.Page, PageSize: filter.PageSize}
}
