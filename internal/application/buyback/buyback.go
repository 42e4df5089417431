package buyback

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/domain/buyback"
	"github.com/boipara/bookstore/internal/domain/notification"
	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/boipara/bookstore/internal/infrastructure/realtime"
	apperrors "github.com/boipara/bookstore/pkg/errors"
	"github.com/boipara/bookstore/pkg/metrics"
	"github.com/boipara/bookstore/pkg/saga"
)

const (
	DomainBuybackSubmitted     = "buyback.submitted"
	DomainBuybackStatusChanged = "buyback.status_changed"
	DomainBuybackAcquired      = "buyback.acquired"

	aggregateBuyback = "buyback"
	acquireSaga      = "buyback_acquire"
)

type buybackEvent struct {
	RequestID uint   `json:"request_id"`
	UserID    uint   `json:"user_id"`
	Status    string `json:"status"`
	Stock     int    `json:"stock"`
	SellerID  uint   `json:"seller_id,omitempty"`
	BookID    uint   `json:"book_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

// BuybackUseCase covers customers offering used books, admins pricing them,
// and sellers acquiring approved copies for resale.
type BuybackUseCase struct {
	repo        buyback.Repository
	books       book.Service
	outboxRepo  outbox.Repository
	txManager   *mysql.TxManager
	waker       outbox.Waker
	sagaTimeout time.Duration
	logger      *zap.Logger
}

// NewBuybackUseCase creates the buyback use case.
func NewBuybackUseCase(
	repo buyback.Repository,
	books book.Service,
	outboxRepo outbox.Repository,
	txManager *mysql.TxManager,
	waker outbox.Waker,
	logger *zap.Logger,
) *BuybackUseCase {
	return &BuybackUseCase{
		repo:        repo,
		books:       books,
		outboxRepo:  outboxRepo,
		txManager:   txManager,
		waker:       waker,
		sagaTimeout: 10 * time.Second,
		logger:      logger,
	}
}

type SubmitRequest struct {
	UserID       uint
	Title        string
	Author       string
	ISBN         string
	Category     string
	Condition    string
	Description  string
	OfferedPrice int64
}

func (uc *BuybackUseCase) Submit(ctx context.Context, req SubmitRequest) (*RequestDTO, error) {
	r := buyback.NewRequest(req.UserID, req.Title, req.Author, req.ISBN, req.Category, req.Condition, req.Description, req.OfferedPrice)
	if err := r.Validate(); err != nil {
		return nil, err
	}

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.repo.Create(txCtx, r); err != nil {
			return err
		}
		entries, err := outbox.NewBuilder(aggregateBuyback, r.ID).
			Event(DomainBuybackSubmitted, idKey(r.ID), eventOf(r)).
			Entries()
		if err != nil {
			return err
		}
		return uc.outboxRepo.Save(txCtx, entries)
	})
	if err != nil {
		return nil, err
	}

	uc.waker.Wake()
	uc.logger.Info("buyback submitted",
		zap.Uint("request_id", r.ID),
		zap.Uint("user_id", r.UserID),
		zap.Int64("offered_price", r.OfferedPrice),
	)
	dto := ToRequestDTO(r)
	return &dto, nil
}

type ApproveRequest struct {
	RequestID    uint
	SellingPrice int64
	Stock        int
	Notes        string
}

func (uc *BuybackUseCase) Approve(ctx context.Context, req ApproveRequest) (*RequestDTO, error) {
	return uc.decide(ctx, req.RequestID, func(r *buyback.Request) error {
		return r.Approve(req.SellingPrice, req.Stock, req.Notes)
	})
}

func (uc *BuybackUseCase) Reject(ctx context.Context, id uint, notes string) (*RequestDTO, error) {
	return uc.decide(ctx, id, func(r *buyback.Request) error {
		return r.Reject(notes)
	})
}

// Complete records that the customer has been paid.
func (uc *BuybackUseCase) Complete(ctx context.Context, id uint, notes string) (*RequestDTO, error) {
	return uc.decide(ctx, id, func(r *buyback.Request) error {
		return r.Complete(notes)
	})
}

// decide applies an admin change and notifies the customer in the same transaction.
func (uc *BuybackUseCase) decide(ctx context.Context, id uint, change func(*buyback.Request) error) (*RequestDTO, error) {
	var r *buyback.Request
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		if r, err = uc.repo.FindByID(txCtx, id); err != nil {
			return err
		}
		if err := change(r); err != nil {
			return err
		}
		if err := uc.repo.Update(txCtx, r); err != nil {
			return err
		}

		b := outbox.NewBuilder(aggregateBuyback, r.ID)
		if title, msg, ok := buyback.CustomerMessage(r); ok {
			b.Notify(outbox.NotificationPayload{
				UserID:  r.UserID,
				Room:    realtime.CustomerRoom(r.UserID),
				Type:    string(notification.TypeBuybackStatus),
				Title:   title,
				Message: msg,
				Link:    "/buyback",
			})
		}
		entries, err := b.Event(DomainBuybackStatusChanged, idKey(r.ID), eventOf(r)).Entries()
		if err != nil {
			return err
		}
		return uc.outboxRepo.Save(txCtx, entries)
	})
	if err != nil {
		return nil, err
	}

	uc.waker.Wake()
	uc.logger.Info("buyback status changed",
		zap.Uint("request_id", r.ID),
		zap.String("status", string(r.Status)),
	)
	dto := ToRequestDTO(r)
	return &dto, nil
}

type AcquireRequest struct {
	RequestID uint
	SellerID  uint
	Quantity  int
}

// Acquire moves units of an approved request into a new used-condition listing
// owned by the seller. It runs as a saga:
//
//	reserve_units   conditional stock decrement   | compensation: give the units back
//	create_listing  publish the used listing      | compensation: delete the listing
//	record_event    outbox entry                  | -
func (uc *BuybackUseCase) Acquire(ctx context.Context, req AcquireRequest) (_ *AcquireResult, err error) {
	if req.Quantity <= 0 {
		return nil, buyback.ErrInvalidQuantity
	}

	r, err := uc.repo.FindByID(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}
	if !r.Acquirable() {
		return nil, buyback.ErrNotAvailable
	}

	defer func() {
		result := "success"
		if err != nil {
			result = "compensated"
		}
		metrics.IncCounterVec(metrics.SagaExecutionsTotal, acquireSaga, result)
	}()

	var listing *book.Book
	s := saga.NewSaga(uc.sagaTimeout).WithLogger(uc.logger)
	s.AddStep("reserve_units",
		func(ctx context.Context) error {
			return uc.repo.AdjustStock(ctx, r.ID, -req.Quantity)
		},
		func(ctx context.Context) error {
			return uc.repo.AdjustStock(ctx, r.ID, req.Quantity)
		},
	)
	s.AddStep("create_listing",
		func(ctx context.Context) error {
			listing = book.NewBook(req.SellerID, r.Title, r.Author, r.ISBN, r.Category,
				r.SellingPrice, 0, req.Quantity, book.ConditionUsed)
			listing.Description = r.Description
			return uc.books.Publish(ctx, listing)
		},
		func(ctx context.Context) error {
			return uc.books.Delete(ctx, listing.ID, req.SellerID)
		},
	)
	s.AddStep("record_event",
		func(ctx context.Context) error {
			ev := eventOf(r)
			ev.SellerID, ev.BookID, ev.Quantity = req.SellerID, listing.ID, req.Quantity
			entries, err := outbox.NewBuilder(aggregateBuyback, r.ID).
				Event(DomainBuybackAcquired, idKey(r.ID), ev).
				Entries()
			if err != nil {
				return err
			}
			return uc.outboxRepo.Save(ctx, entries)
		},
		nil,
	)

	if err := s.Execute(ctx); err != nil {
		uc.logger.Warn("buyback acquisition rolled back",
			zap.Uint("request_id", r.ID),
			zap.Uint("seller_id", req.SellerID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err),
		)
		// the saga wraps the step error; surface the domain error itself
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, err
	}
	uc.waker.Wake()

	updated, err := uc.repo.FindByID(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("buyback units acquired",
		zap.Uint("request_id", r.ID),
		zap.Uint("seller_id", req.SellerID),
		zap.Uint("book_id", listing.ID),
		zap.Int("quantity", req.Quantity),
		zap.Int("remaining", updated.Stock),
	)
	return &AcquireResult{BookID: listing.ID, Quantity: req.Quantity, Request: ToRequestDTO(updated)}, nil
}

func (uc *BuybackUseCase) ListMine(ctx context.Context, userID uint, page, pageSize int) (*PageResult, error) {
	return uc.list(ctx, buyback.ListFilter{UserID: userID, Page: page, PageSize: pageSize})
}

// ListAll is the admin view, optionally filtered by status.
func (uc *BuybackUseCase) ListAll(ctx context.Context, status string, page, pageSize int) (*PageResult, error) {
	filter := buyback.ListFilter{Status: buyback.Status(status), Page: page, PageSize: pageSize}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "unknown buyback status")
	}
	return uc.list(ctx, filter)
}

// ListAvailable is what sellers can still acquire.
func (uc *BuybackUseCase) ListAvailable(ctx context.Context, page, pageSize int) (*PageResult, error) {
	return uc.list(ctx, buyback.ListFilter{AvailableOnly: true, Page: page, PageSize: pageSize})
}

func (uc *BuybackUseCase) list(ctx context.Context, filter buyback.ListFilter) (*PageResult, error) {
	filter.Normalize()
	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toPageResult(list, total, filter), nil
}

func eventOf(r *buyback.Request) buybackEvent {
	return buybackEvent{RequestID: r.ID, UserID: r.UserID, Status: string(r.Status), Stock: r.Stock}
}

func idKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
