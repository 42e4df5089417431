package book

import (
	"strings"
	"time"
)

// Condition is the physical condition of a listed copy.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like-new"
	ConditionUsed    Condition = "used"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionUsed:
		return true
	}
	return false
}

// Book is a catalog listing owned by one seller.
//
// Design notes:
//  1. Money is int64 minor units (paisa, 100 = 1 taka); no floats anywhere.
//  2. Stock is never negative; the store enforces it with a conditional update,
//     the entity only validates input.
//  3. MRP is the printed price; Discount is derived, never stored.
type Book struct {
	ID          uint
	ISBN        string
	Title       string
	Author      string
	Category    string
	Description string
	CoverURL    string
	Price       int64
	MRP         int64
	Stock       int
	Condition   Condition
	SellerID    uint
	Featured    bool
	Bestseller  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook builds a listing for sellerID; call Validate before persisting.
func NewBook(sellerID uint, title, author, isbn, category string, price, mrp int64, stock int, condition Condition) *Book {
	now := time.Now()
	if condition == "" {
		condition = ConditionNew
	}
	if mrp == 0 {
		mrp = price
	}
	return &Book{
		ISBN:      strings.TrimSpace(isbn),
		Title:     strings.TrimSpace(title),
		Author:    strings.TrimSpace(author),
		Category:  strings.TrimSpace(category),
		Price:     price,
		MRP:       mrp,
		Stock:     stock,
		Condition: condition,
		SellerID:  sellerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *Book) Validate() error {
	if b.Title == "" || b.Author == "" {
		return ErrMissingTitleOrAuthor
	}
	if b.Price <= 0 {
		return ErrInvalidPrice
	}
	if b.MRP < 0 {
		return ErrInvalidPrice
	}
	if b.Stock < 0 {
		return ErrInvalidStock
	}
	if !b.Condition.Valid() {
		return ErrInvalidCondition
	}
	return nil
}

// DiscountPercent is the rounded-down discount against MRP, 0 when MRP <= price.
func (b *Book) DiscountPercent() int {
	if b.MRP <= 0 || b.MRP <= b.Price {
		return 0
	}
	return int((b.MRP - b.Price) * 100 / b.MRP)
}

func (b *Book) InStock() bool {
	return b.Stock > 0
}

func (b *Book) HasStock(quantity int) bool {
	return quantity > 0 && b.Stock >= quantity
}

func (b *Book) IsOwnedBy(sellerID uint) bool {
	return b.SellerID == sellerID
}

// Patch is a partial update applied by the owning seller. Nil fields stay unchanged.
type Patch struct {
	Title       *string
	Author      *string
	ISBN        *string
	Category    *string
	Description *string
	CoverURL    *string
	Price       *int64
	MRP         *int64
	Stock       *int
	Condition   *Condition
	Featured    *bool
	Bestseller  *bool
}

func (b *Book) Apply(p Patch) error {
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		b.Author = strings.TrimSpace(*p.Author)
	}
	if p.ISBN != nil {
		b.ISBN = strings.TrimSpace(*p.ISBN)
	}
	if p.Category != nil {
		b.Category = strings.TrimSpace(*p.Category)
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.CoverURL != nil {
		b.CoverURL = *p.CoverURL
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.MRP != nil {
		b.MRP = *p.MRP
	}
	if p.Stock != nil {
		b.Stock = *p.Stock
	}
	if p.Condition != nil {
		b.Condition = *p.Condition
	}
	if p.Featured != nil {
		b.Featured = *p.Featured
	}
	if p.Bestseller != nil {
		b.Bestseller = *p.Bestseller
	}
	b.UpdatedAt = time.Now()
	return b.Validate()
}
