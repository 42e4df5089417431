package returns

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/order"
	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/internal/domain/returns"
	"github.com/boipara/bookstore/internal/domain/user"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/mysql"
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

// ReturnUseCase runs the return and refund workflow:
//
//	customer creates -> admin approves or rejects -> seller refunds -> admin completes
//
// Returned units are not put back into stock.
type ReturnUseCase struct {
	returnRepo returns.Repository
	orderRepo  order.Repository
	outboxRepo outbox.Repository
	txManager  *mysql.TxManager
	waker      outbox.Waker
	logger     *zap.Logger
}

// NewReturnUseCase creates the return workflow use case.
func NewReturnUseCase(
	returnRepo returns.Repository,
	orderRepo order.Repository,
	outboxRepo outbox.Repository,
	txManager *mysql.TxManager,
	waker outbox.Waker,
	logger *zap.Logger,
) *ReturnUseCase {
	return &ReturnUseCase{
		returnRepo: returnRepo,
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
		waker:      waker,
		logger:     logger,
	}
}

type CreateReturnRequest struct {
	OrderID     uint
	UserID      uint
	Items       []ReturnLine
	Reason      string
	Description string
}

type ReturnLine struct {
	BookID   uint
	Quantity int
}

func (uc *ReturnUseCase) Create(ctx context.Context, req CreateReturnRequest) (*ReturnDTO, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, returns.ErrMissingReason
	}
	if len(req.Items) == 0 {
		return nil, returns.ErrNoItems
	}

	var r *returns.Return
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.FindByID(txCtx, req.OrderID)
		if err != nil {
			return err
		}
		if !o.IsOwnedBy(req.UserID) {
			return apperrors.ErrForbidden
		}
		if o.Status != order.StatusDelivered {
			return returns.ErrOrderNotDelivered
		}

		items, sellerID, err := selectItems(o, req.Items)
		if err != nil {
			return err
		}

		open, err := uc.returnRepo.HasOpenForOrder(txCtx, o.ID)
		if err != nil {
			return err
		}
		if open {
			return returns.ErrReturnExists
		}

		r = returns.New(o.ID, o.OrderNo, o.UserID, sellerID, items, reason, strings.TrimSpace(req.Description))
		if err := uc.returnRepo.Create(txCtx, r); err != nil {
			return err
		}
		entries, err := requestedEntries(r)
		if err != nil {
			return err
		}
		return uc.outboxRepo.Save(txCtx, entries)
	})
	if err != nil {
		return nil, err
	}

	uc.waker.Wake()
	uc.logger.Info("return requested",
		zap.Uint("return_id", r.ID),
		zap.Uint("order_id", r.OrderID),
		zap.Uint("seller_id", r.SellerID),
		zap.Int64("items_total", r.ItemsTotal()),
	)
	dto := ToReturnDTO(r)
	return &dto, nil
}

// selectItems checks the requested lines against the order and snapshots their
// title and price. Duplicate lines are merged.
func selectItems(o *order.Order, lines []ReturnLine) ([]returns.Item, uint, error) {
	merged := make(map[uint]int, len(lines))
	var bookIDs []uint
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, 0, apperrors.WithMessage(apperrors.ErrValidation, "return quantity must be positive")
		}
		if _, ok := merged[line.BookID]; !ok {
			bookIDs = append(bookIDs, line.BookID)
		}
		merged[line.BookID] += line.Quantity
	}

	items := make([]returns.Item, 0, len(bookIDs))
	var sellerID uint
	for _, bookID := range bookIDs {
		ordered, ok := o.ItemByBook(bookID)
		if !ok {
			return nil, 0, returns.ErrItemNotInOrder
		}
		if merged[bookID] > ordered.Quantity {
			return nil, 0, returns.ErrQuantityExceeded
		}
		if sellerID != 0 && ordered.SellerID != sellerID {
			return nil, 0, returns.ErrMixedSellers
		}
		sellerID = ordered.SellerID
		items = append(items, returns.Item{
			BookID:   bookID,
			Title:    ordered.Title,
			Quantity: merged[bookID],
			Price:    ordered.Price,
		})
	}
	return items, sellerID, nil
}

type AdminStatusRequest struct {
	ReturnID uint
	Status   string
	Notes    string
}

// UpdateStatus applies an admin decision: approve, reject or complete.
func (uc *ReturnUseCase) UpdateStatus(ctx context.Context, req AdminStatusRequest) (*ReturnDTO, error) {
	target := returns.Status(req.Status)
	if !target.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "unknown return status")
	}

	r, err := uc.apply(ctx, req.ReturnID, func(r *returns.Return) error {
		return r.AdminTransition(target, strings.TrimSpace(req.Notes))
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("return status changed",
		zap.Uint("return_id", r.ID),
		zap.String("status", string(r.Status)),
	)
	dto := ToReturnDTO(r)
	return &dto, nil
}

type ProcessRequest struct {
	ReturnID     uint
	SellerID     uint
	RefundAmount int64
	Notes        string
}

// Process is the seller issuing the refund for an approved return. A zero
// amount refunds the returned items' total.
func (uc *ReturnUseCase) Process(ctx context.Context, req ProcessRequest) (*ReturnDTO, error) {
	r, err := uc.apply(ctx, req.ReturnID, func(r *returns.Return) error {
		return r.IssueRefund(req.SellerID, req.RefundAmount, strings.TrimSpace(req.Notes))
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("refund issued",
		zap.Uint("return_id", r.ID),
		zap.Uint("seller_id", r.SellerID),
		zap.Int64("refund_amount", r.RefundAmount),
	)
	dto := ToReturnDTO(r)
	return &dto, nil
}

// apply loads, mutates and stores a return together with its outbox entries.
func (uc *ReturnUseCase) apply(ctx context.Context, id uint, mutate func(*returns.Return) error) (*returns.Return, error) {
	var r *returns.Return
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		r, err = uc.returnRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := mutate(r); err != nil {
			return err
		}
		if err := uc.returnRepo.Update(txCtx, r); err != nil {
			return err
		}
		entries, err := statusEntries(r)
		if err != nil {
			return err
		}
		return uc.outboxRepo.Save(txCtx, entries)
	})
	if err != nil {
		return nil, err
	}
	uc.waker.Wake()
	return r, nil
}

type ListRequest struct {
	ViewerID uint
	Role     user.Role
	Status   string
	Page     int
	PageSize int
}

// List scopes by role: customers see their own returns, sellers the returns
// addressed to them, admins everything.
func (uc *ReturnUseCase) List(ctx context.Context, req ListRequest) (*PageResult, error) {
	filter := returns.ListFilter{
		Status:   returns.Status(req.Status),
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "unknown return status")
	}
	filter.Normalize()

	switch req.Role {
	case user.RoleAdmin:
	case user.RoleSeller:
		filter.SellerID = req.ViewerID
	default:
		filter.UserID = req.ViewerID
	}

	list, total, err := uc.returnRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]ReturnDTO, len(list))
	for i, r := range list {
		dtos[i] = ToReturnDTO(r)
	}

	return &PageResult{Returns: dtos, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}
