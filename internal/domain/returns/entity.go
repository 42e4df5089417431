// Package returns models customer return requests and their refund lifecycle.
package returns

import (
	"time"
)

// Status of a return request.
//
//	pending-admin -> approved-by-admin -> refund-issued -> completed
//	pending-admin -> rejected-by-admin
type Status string

const (
	StatusPendingAdmin Status = "pending-admin"
	StatusApproved     Status = "approved-by-admin"
	StatusRejected     Status = "rejected-by-admin"
	StatusRefundIssued Status = "refund-issued"
	StatusCompleted    Status = "completed"
)

// adminTransitions are the moves an admin may make; refund-issued is seller-only.
var adminTransitions = map[Status][]Status{
	StatusPendingAdmin: {StatusApproved, StatusRejected},
	StatusRefundIssued: {StatusCompleted},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPendingAdmin, StatusApproved, StatusRejected, StatusRefundIssued, StatusCompleted:
		return true
	}
	return false
}

// IsOpen reports whether the request still blocks a new return on the same order.
func (s Status) IsOpen() bool {
	return s != StatusRejected && s != StatusCompleted
}

type Item struct {
	BookID   uint
	Title    string
	Quantity int
	Price    int64
}

type Return struct {
	ID           uint
	OrderID      uint
	OrderNo      string
	UserID       uint
	SellerID     uint
	Items        []Item
	Reason       string
	Description  string
	Status       Status
	AdminNotes   string
	RefundAmount int64
	SellerNotes  string
	RefundedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New creates a return request awaiting admin review.
func New(orderID uint, orderNo string, userID, sellerID uint, items []Item, reason, description string) *Return {
	now := time.Now()
	return &Return{
		OrderID:     orderID,
		OrderNo:     orderNo,
		UserID:      userID,
		SellerID:    sellerID,
		Items:       items,
		Reason:      reason,
		Description: description,
		Status:      StatusPendingAdmin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r *Return) ItemsTotal() int64 {
	var total int64
	for _, item := range r.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// AdminTransition applies an admin decision.
func (r *Return) AdminTransition(target Status, notes string) error {
	allowed := false
	for _, s := range adminTransitions[r.Status] {
		if s == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrInvalidTransition
	}
	r.Status = target
	if notes != "" {
		r.AdminNotes = notes
	}
	r.UpdatedAt = time.Now()
	return nil
}

// IssueRefund is the seller step; only valid right after admin approval.
// A zero amount defaults to the returned items' total.
func (r *Return) IssueRefund(sellerID uint, amount int64, notes string) error {
	if r.SellerID != sellerID {
		return ErrNotReturnSeller
	}
	if r.Status != StatusApproved {
		return ErrNotApproved
	}
	if amount < 0 || amount > r.ItemsTotal() {
		return ErrInvalidRefundAmount
	}
	if amount == 0 {
		amount = r.ItemsTotal()
	}

	now := time.Now()
	r.Status = StatusRefundIssued
	r.RefundAmount = amount
	r.SellerNotes = notes
	r.RefundedAt = &now
	r.UpdatedAt = now
	return nil
}
