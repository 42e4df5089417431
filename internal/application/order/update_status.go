package order

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/domain/order"
	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/internal/domain/user"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/mysql"
	apperrors "github.com/boipara/bookstore/pkg/errors"
	"github.com/boipara/bookstore/pkg/metrics"
)

// UpdateStatusUseCase moves an order along the fulfilment flow. Admins may move
// any order; sellers only orders holding at least one of their items.
type UpdateStatusUseCase struct {
	orderRepo  order.Repository
	bookRepo   book.Repository
	outboxRepo outbox.Repository
	txManager  *mysql.TxManager
	waker      outbox.Waker
	logger     *zap.Logger
}

// NewUpdateStatusUseCase creates the order status use case.
func NewUpdateStatusUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	outboxRepo outbox.Repository,
	txManager *mysql.TxManager,
	waker outbox.Waker,
	logger *zap.Logger,
) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		orderRepo:  orderRepo,
		bookRepo:   bookRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
		waker:      waker,
		logger:     logger,
	}
}

type UpdateStatusRequest struct {
	OrderID   uint
	ActorID   uint
	ActorRole user.Role
	Status    string
}

func (uc *UpdateStatusUseCase) Execute(ctx context.Context, req UpdateStatusRequest) (*OrderDTO, error) {
	target := order.Status(req.Status)
	if !target.Valid() {
		return nil, order.ErrInvalidStatus
	}
	if target == order.StatusCancelled {
		return nil, order.ErrInvalidStatusTransition
	}

	var o *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		o, err = uc.orderRepo.FindByID(txCtx, req.OrderID)
		if err != nil {
			return err
		}
		if err := authorizeFulfilment(o, req.ActorID, req.ActorRole); err != nil {
			return err
		}

		from := o.Status
		if err := o.TransitionTo(target); err != nil {
			return err
		}
		if err := uc.orderRepo.UpdateStatus(txCtx, o, from); err != nil {
			return err
		}
		if target.ReleasesStock() {
			if err := restoreStock(txCtx, uc.bookRepo, o, uc.logger); err != nil {
				return err
			}
		}

		entries, err := statusEntries(o)
		if err != nil {
			return err
		}
		return uc.outboxRepo.Save(txCtx, entries)
	})
	if err != nil {
		return nil, err
	}

	uc.waker.Wake()
	metrics.IncCounterVec(metrics.OrderStatusTransitionsTotal, string(target))
	uc.logger.Info("order status changed",
		zap.Uint("order_id", o.ID),
		zap.String("status", string(o.Status)),
		zap.Uint("actor_id", req.ActorID),
		zap.String("actor_role", string(req.ActorRole)),
	)

	dto := ToOrderDTO(o)
	return &dto, nil
}

func authorizeFulfilment(o *order.Order, actorID uint, role user.Role) error {
	switch role {
	case user.RoleAdmin:
		return nil
	case user.RoleSeller:
		if o.InvolvesSeller(actorID) {
			return nil
		}
		return order.ErrNotOrderSeller
	default:
		return apperrors.ErrForbidden
	}
}

// restoreStock returns every line's quantity to the catalog. Listings deleted
// since the purchase are skipped.
func restoreStock(ctx context.Context, books book.Repository, o *order.Order, logger *zap.Logger) error {
	for _, item := range o.Items {
		err := books.UpdateStock(ctx, item.BookID, item.Quantity)
		if errors.Is(err, book.ErrBookNotFound) {
			logger.Warn("stock not restored, listing removed",
				zap.Uint("order_id", o.ID),
				zap.Uint("book_id", item.BookID),
			)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
