// Package buyback models customers selling used books to the store, and sellers
// acquiring approved copies for resale.
package buyback

import (
	"strings"
	"time"
)

// Status of a buyback request.
//
//	pending -> approved -> completed (store paid the customer)
//	pending -> rejected
//	approved -> sold (every unit acquired by sellers)
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusSold      Status = "sold"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusSold:
		return true
	}
	return false
}

type Request struct {
	ID           uint
	UserID       uint
	Title        string
	Author       string
	ISBN         string
	Category     string
	Condition    string
	Description  string
	OfferedPrice int64
	Status       Status
	SellingPrice int64
	Stock        int
	AdminNotes   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewRequest creates a pending buyback request.
func NewRequest(userID uint, title, author, isbn, category, condition, description string, offeredPrice int64) *Request {
	now := time.Now()
	return &Request{
		UserID:       userID,
		Title:        strings.TrimSpace(title),
		Author:       strings.TrimSpace(author),
		ISBN:         strings.TrimSpace(isbn),
		Category:     strings.TrimSpace(category),
		Condition:    condition,
		Description:  description,
		OfferedPrice: offeredPrice,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (r *Request) Validate() error {
	if r.Title == "" || r.Author == "" {
		return ErrMissingTitleOrAuthor
	}
	if r.OfferedPrice <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

func (r *Request) Approve(sellingPrice int64, stock int, notes string) error {
	if r.Status != StatusPending {
		return ErrInvalidTransition
	}
	if sellingPrice <= 0 {
		return ErrInvalidPrice
	}
	if stock <= 0 {
		return ErrInvalidStock
	}
	r.Status = StatusApproved
	r.SellingPrice = sellingPrice
	r.Stock = stock
	r.AdminNotes = notes
	r.UpdatedAt = time.Now()
	return nil
}

func (r *Request) Reject(notes string) error {
	if r.Status != StatusPending {
		return ErrInvalidTransition
	}
	r.Status = StatusRejected
	r.AdminNotes = notes
	r.UpdatedAt = time.Now()
	return nil
}

// Complete marks the customer as paid. Allowed once approved, also after it sold out.
func (r *Request) Complete(notes string) error {
	if r.Status != StatusApproved && r.Status != StatusSold {
		return ErrInvalidTransition
	}
	r.Status = StatusCompleted
	if notes != "" {
		r.AdminNotes = notes
	}
	r.UpdatedAt = time.Now()
	return nil
}

// Acquirable reports whether sellers can still buy units of this request.
func (r *Request) Acquirable() bool {
	return (r.Status == StatusApproved || r.Status == StatusCompleted) && r.Stock > 0
}
