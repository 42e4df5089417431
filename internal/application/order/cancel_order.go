package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/domain/order"
	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/boipara/bookstore/pkg/metrics"
)

// CancelOrderUseCase lets the buyer cancel while the order is still early in
// fulfilment. Stock of every line goes back to the catalog.
type CancelOrderUseCase struct {
	orderRepo  order.Repository
	bookRepo   book.Repository
	outboxRepo outbox.Repository
	txManager  *mysql.TxManager
	waker      outbox.Waker
	logger     *zap.Logger
}

// NewCancelOrderUseCase creates the cancel use case.
func NewCancelOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	outboxRepo outbox.Repository,
	txManager *mysql.TxManager,
	waker outbox.Waker,
	logger *zap.Logger,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo:  orderRepo,
		bookRepo:   bookRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
		waker:      waker,
		logger:     logger,
	}
}

func (uc *CancelOrderUseCase) Execute(ctx context.Context, orderID, userID uint) (*OrderDTO, error) {
	var o *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		o, err = uc.orderRepo.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if !o.IsOwnedBy(userID) {
			return order.ErrNotOrderOwner
		}

		from := o.Status
		if err := o.Cancel(); err != nil {
			return err
		}
		if err := uc.orderRepo.UpdateStatus(txCtx, o, from); err != nil {
			return err
		}
		if err := restoreStock(txCtx, uc.bookRepo, o, uc.logger); err != nil {
			return err
		}

		entries, err := cancelledEntries(o)
		if err != nil {
			return err
		}
		return uc.outboxRepo.Save(txCtx, entries)
	})
	if err != nil {
		return nil, err
	}

	uc.waker.Wake()
	metrics.IncCounterVec(metrics.OrderStatusTransitionsTotal, string(order.StatusCancelled))
	uc.logger.Info("order cancelled", zap.Uint("order_id", o.ID), zap.Uint("user_id", userID))

	dto := ToOrderDTO(o)
	return &dto, nil
}
