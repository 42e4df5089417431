package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/domain/order"
	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/internal/domain/user"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/boipara/bookstore/pkg/metrics"
	"github.com/boipara/bookstore/pkg/tracing"
)

// CreateOrderUseCase checks out a cart.
//
// Every line is validated before anything is written. The writes then run in one
// transaction: a conditional stock decrement per line, the order with its items,
// and the outbox entries for notifications and pushes. A decrement lost to a
// concurrent order fails the whole transaction, so no stock moves.
type CreateOrderUseCase struct {
	orderRepo  order.Repository
	bookRepo   book.Repository
	userRepo   user.Repository
	outboxRepo outbox.Repository
	txManager  *mysql.TxManager
	waker      outbox.Waker
	logger     *zap.Logger
}

// NewCreateOrderUseCase creates the checkout use case.
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	userRepo user.Repository,
	outboxRepo outbox.Repository,
	txManager *mysql.TxManager,
	waker outbox.Waker,
	logger *zap.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:  orderRepo,
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
		waker:      waker,
		logger:     logger,
	}
}

type CreateOrderRequest struct {
	UserID          uint
	Items           []CreateOrderItem
	PaymentMethod   string
	ShippingAddress ShippingAddressDTO
}

type CreateOrderItem struct {
	BookID   uint
	Quantity int
}

func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (_ *OrderDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, "order.create",
		attribute.Int("order.user_id", int(req.UserID)),
		attribute.Int("order.lines", len(req.Items)),
	)
	start := time.Now()
	defer func() {
		tracing.EndSpan(span, err)
		metrics.OrderCreationDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.IncCounterVec(metrics.OrdersFailedTotal, failureReason(err))
		}
	}()

	lines, payment, addr, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	buyer, err := uc.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	items, err := uc.priceLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	o := order.NewOrder(order.GenerateOrderNo(), req.UserID, items, payment, addr)
	o.CustomerName = buyer.Name
	o.CustomerEmail = buyer.Email
	o.CustomerPhone = buyer.Phone

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		for _, item := range o.Items {
			if err := uc.bookRepo.UpdateStock(txCtx, item.BookID, -item.Quantity); err != nil {
				return err
			}
		}
		if err := uc.orderRepo.Create(txCtx, o); err != nil {
			return err
		}
		entries, err := placedEntries(o)
		if err != nil {
			return err
		}
		return uc.outboxRepo.Save(txCtx, entries)
	})
	if err != nil {
		return nil, err
	}

	uc.waker.Wake()
	metrics.OrdersCreatedTotal.Inc()
	uc.logger.Info("order created",
		zap.Uint("order_id", o.ID),
		zap.String("order_no", o.OrderNo),
		zap.Uint("user_id", o.UserID),
		zap.Int64("total", o.Total),
		zap.Int("sellers", len(o.SellerIDs())),
	)

	dto := ToOrderDTO(o)
	return &dto, nil
}

// validateRequest merges duplicate book lines and checks everything that needs
// no store access.
func validateRequest(req CreateOrderRequest) ([]CreateOrderItem, order.PaymentMethod, order.ShippingAddress, error) {
	if len(req.Items) == 0 {
		return nil, "", order.ShippingAddress{}, order.ErrInvalidOrderItems
	}

	merged := make([]CreateOrderItem, 0, len(req.Items))
	index := make(map[uint]int, len(req.Items))
	for _, item := range req.Items {
		if item.BookID == 0 {
			return nil, "", order.ShippingAddress{}, order.ErrInvalidOrderItems
		}
		if item.Quantity <= 0 {
			return nil, "", order.ShippingAddress{}, order.ErrInvalidQuantity
		}
		if i, ok := index[item.BookID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.BookID] = len(merged)
		merged = append(merged, item)
	}

	payment := order.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod)))
	if payment == "" {
		payment = order.PaymentCOD
	}
	if !payment.Valid() {
		return nil, "", order.ShippingAddress{}, order.ErrInvalidPaymentMethod
	}

	addr := order.ShippingAddress{
		FullName:   strings.TrimSpace(req.ShippingAddress.FullName),
		Phone:      strings.TrimSpace(req.ShippingAddress.Phone),
		Address:    strings.TrimSpace(req.ShippingAddress.Address),
		City:       strings.TrimSpace(req.ShippingAddress.City),
		PostalCode: strings.TrimSpace(req.ShippingAddress.PostalCode),
	}
	if addr.FullName == "" || addr.Phone == "" || addr.Address == "" || addr.City == "" {
		return nil, "", order.ShippingAddress{}, order.ErrInvalidAddress
	}
	return merged, payment, addr, nil
}

// priceLines snapshots title, seller and current price for each line, checking
// existence and stock for all of them before any write.
func (uc *CreateOrderUseCase) priceLines(ctx context.Context, lines []CreateOrderItem) ([]order.OrderItem, error) {
	ids := make([]uint, len(lines))
	for i, line := range lines {
		ids[i] = line.BookID
	}
	books, err := uc.bookRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]order.OrderItem, len(lines))
	for i, line := range lines {
		b, ok := books[line.BookID]
		if !ok {
			return nil, book.ErrBookNotFound
		}
		if !b.HasStock(line.Quantity) {
			return nil, book.ErrInsufficientStock
		}
		items[i] = order.OrderItem{
			BookID:   b.ID,
			SellerID: b.SellerID,
			Title:    b.Title,
			Quantity: line.Quantity,
			Price:    b.Price,
		}
	}
	return items, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, book.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, book.ErrBookNotFound):
		return "book_not_found"
	case errors.Is(err, order.ErrInvalidOrderItems),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrInvalidPaymentMethod),
		errors.Is(err, order.ErrInvalidAddress):
		return "validation"
	default:
		return "internal"
	}
}
