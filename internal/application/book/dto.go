package book

import (
	"time"

	"github.com/boipara/bookstore/internal/domain/book"
)

// BookDTO is a listing as the API returns it. Prices are paisa.
type BookDTO struct {
	ID          uint      `json:"id"`
	ISBN        string    `json:"isbn,omitempty"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	Price       int64     `json:"price"`
	MRP         int64     `json:"mrp"`
	Discount    int       `json:"discount"` // percent off MRP
	Stock       int       `json:"stock"`
	InStock     bool      `json:"in_stock"`
	Condition   string    `json:"condition"`
	SellerID    uint      `json:"seller_id"`
	Featured    bool      `json:"featured"`
	Bestseller  bool      `json:"bestseller"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListBooksResponse struct {
	List       []BookDTO `json:"list"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

func ToBookDTO(b *book.Book) BookDTO {
	return BookDTO{
		ID:          b.ID,
		ISBN:        b.ISBN,
		Title:       b.Title,
		Author:      b.Author,
		Category:    b.Category,
		Description: b.Description,
		CoverURL:    b.CoverURL,
		Price:       b.Price,
		MRP:         b.MRP,
		Discount:    b.DiscountPercent(),
		Stock:       b.Stock,
		InStock:     b.InStock(),
		Condition:   string(b.Condition),
		SellerID:    b.SellerID,
		Featured:    b.Featured,
		Bestseller:  b.Bestseller,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBookDTOs(books []*book.Book) []BookDTO {
	dtos := make([]BookDTO, len(books))
	for i, b := range books {
		dtos[i] = ToBookDTO(b)
	}
	return dtos
}
