package order

import (
	"time"
)

// Status is the fulfilment state of an order.
//
// Main flow:
//
//	new -> accepted -> confirmed -> packed -> shipped -> delivered
//
// rejected is reachable from new and accepted (seller/admin);
// cancelled is reachable only through Cancel by the owning customer.
type Status string

const (
	StatusNew       Status = "new"
	StatusAccepted  Status = "accepted"
	StatusConfirmed Status = "confirmed"
	StatusPacked    Status = "packed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"

	// Legacy states still present on imported orders. They are cancellable but
	// have no forward transitions.
	StatusPlaced     Status = "placed"
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
)

var transitions = map[Status][]Status{
	StatusNew:       {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusConfirmed, StatusRejected},
	StatusConfirmed: {StatusPacked},
	StatusPacked:    {StatusShipped},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusRejected:  {},
	StatusCancelled: {},
}

var cancellable = map[Status]bool{
	StatusNew:        true,
	StatusPlaced:     true,
	StatusPending:    true,
	StatusProcessing: true,
	StatusAccepted:   true,
	StatusPacked:     true,
}

func (s Status) Valid() bool {
	if _, ok := transitions[s]; ok {
		return true
	}
	return s == StatusPlaced || s == StatusPending || s == StatusProcessing
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusRejected || s == StatusCancelled
}

// ReleasesStock reports whether entering s returns the reserved units to the catalog.
func (s Status) ReleasesStock() bool {
	return s == StatusRejected || s == StatusCancelled
}

type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "cod"
	PaymentBkash PaymentMethod = "bkash"
	PaymentNagad PaymentMethod = "nagad"
	PaymentCard  PaymentMethod = "card"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCOD, PaymentBkash, PaymentNagad, PaymentCard:
		return true
	}
	return false
}

// Shipping rule, in paisa.
const (
	FreeShippingThreshold int64 = 500_00
	ShippingFee           int64 = 50_00
)

// ShippingFor returns the fee for a subtotal: free strictly above the threshold.
func ShippingFor(subtotal int64) int64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}

type ShippingAddress struct {
	FullName   string
	Phone      string
	Address    string
	City       string
	PostalCode string
}

// Order is the aggregate root; items are only reachable through it.
//
// Design notes:
//  1. Item price and seller are snapshots taken at purchase.
//  2. Customer contact is denormalized so sellers see it without reading users.
//  3. Totals are stored, not recomputed, so later price edits never change history.
type Order struct {
	ID              uint
	OrderNo         string
	UserID          uint
	Items           []OrderItem
	Subtotal        int64
	ShippingFee     int64
	Total           int64
	Status          Status
	PaymentMethod   PaymentMethod
	ShippingAddress ShippingAddress
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID       uint
	OrderID  uint
	BookID   uint
	SellerID uint
	Title    string
	Quantity int
	Price    int64
}

func (i OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// NewOrder builds a new order and computes its totals.
func NewOrder(orderNo string, userID uint, items []OrderItem, payment PaymentMethod, addr ShippingAddress) *Order {
	now := time.Now()
	o := &Order{
		OrderNo:         orderNo,
		UserID:          userID,
		Items:           items,
		Status:          StatusNew,
		PaymentMethod:   payment,
		ShippingAddress: addr,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	o.Subtotal = o.CalculateSubtotal()
	o.ShippingFee = ShippingFor(o.Subtotal)
	o.Total = o.Subtotal + o.ShippingFee
	return o
}

func (o *Order) CalculateSubtotal() int64 {
	var subtotal int64
	for _, item := range o.Items {
		subtotal += item.LineTotal()
	}
	return subtotal
}

func (o *Order) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo moves the order along the fulfilment flow.
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

func (o *Order) CanCancel() bool {
	return cancellable[o.Status]
}

func (o *Order) Cancel() error {
	if !o.CanCancel() {
		return ErrNotCancellable
	}
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now
	return nil
}

func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}

// SellerIDs returns the distinct sellers in item order.
func (o *Order) SellerIDs() []uint {
	seen := make(map[uint]bool, len(o.Items))
	ids := make([]uint, 0, len(o.Items))
	for _, item := range o.Items {
		if !seen[item.SellerID] {
			seen[item.SellerID] = true
			ids = append(ids, item.SellerID)
		}
	}
	return ids
}

func (o *Order) InvolvesSeller(sellerID uint) bool {
	for _, item := range o.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}

// ItemsOf returns the lines sold by sellerID.
func (o *Order) ItemsOf(sellerID uint) []OrderItem {
	var items []OrderItem
	for _, item := range o.Items {
		if item.SellerID == sellerID {
			items = append(items, item)
		}
	}
	return items
}

// ItemByBook finds the line for bookID.
func (o *Order) ItemByBook(bookID uint) (OrderItem, bool) {
	for _, item := range o.Items {
		if item.BookID == bookID {
			return item, true
		}
	}
	return OrderItem{}, false
}
