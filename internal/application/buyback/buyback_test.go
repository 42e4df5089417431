package buyback

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/domain/buyback"
	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/mysql"
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

const (
	customerID uint = 1
	sellerID   uint = 7
)

type fixture struct {
	books  book.Repository
	outbox outbox.Repository
	uc     *BuybackUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := mysql.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{
		books:  mysql.NewBookRepository(db),
		outbox: mysql.NewOutboxRepository(db),
	}
	f.uc = NewBuybackUseCase(mysql.NewBuybackRepository(db), book.NewService(f.books), f.outbox,
		mysql.NewTxManager(db), outbox.NopWaker{}, zap.NewNop())
	return f
}

func (f *fixture) approved(t *testing.T, isbn string, stock int) *RequestDTO {
	t.Helper()
	ctx := context.Background()
	req, err := f.uc.Submit(ctx, SubmitRequest{
		UserID: customerID, Title: "Padma Nadir Majhi", Author: "Manik Bandopadhyay",
		ISBN: isbn, Condition: "good", OfferedPrice: 80_00,
	})
	require.NoError(t, err)
	approved, err := f.uc.Approve(ctx, ApproveRequest{RequestID: req.ID, SellingPrice: 150_00, Stock: stock, Notes: "clean copy"})
	require.NoError(t, err)
	return approved
}

func (f *fixture) kinds(t *testing.T) map[outbox.Kind]int {
	t.Helper()
	entries, err := f.outbox.FetchPending(context.Background(), 100)
	require.NoError(t, err)
	counts := make(map[outbox.Kind]int)
	for _, e := range entries {
		counts[e.Kind]++
	}
	return counts
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Submit(ctx, SubmitRequest{UserID: customerID, Title: " ", Author: "A", OfferedPrice: 10})
	assert.ErrorIs(t, err, buyback.ErrMissingTitleOrAuthor)
	_, err = f.uc.Submit(ctx, SubmitRequest{UserID: customerID, Title: "T", Author: "A"})
	assert.ErrorIs(t, err, buyback.ErrInvalidPrice)
}

func TestDecisions_NotifyCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	approved := f.approved(t, "", 2)
	assert.Equal(t, string(buyback.StatusApproved), approved.Status)
	assert.Equal(t, int64(150_00), approved.SellingPrice)

	_, err := f.uc.Reject(ctx, approved.ID, "too late")
	assert.ErrorIs(t, err, buyback.ErrInvalidTransition)

	done, err := f.uc.Complete(ctx, approved.ID, "")
	require.NoError(t, err)
	assert.Equal(t, string(buyback.StatusCompleted), done.Status)
	assert.Equal(t, "clean copy", done.AdminNotes)

	other, err := f.uc.Submit(ctx, SubmitRequest{UserID: customerID, Title: "T", Author: "A", OfferedPrice: 10})
	require.NoError(t, err)
	rejected, err := f.uc.Reject(ctx, other.ID, "torn pages")
	require.NoError(t, err)
	assert.Equal(t, "torn pages", rejected.AdminNotes)

	// approve, complete, reject: one notification each; every step also records an event
	kinds := f.kinds(t)
	assert.Equal(t, 3, kinds[outbox.KindNotification])
	assert.Equal(t, 5, kinds[outbox.KindEvent])
}

func TestAcquire_CreatesUsedListingAndSellsOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.approved(t, "", 3)

	first, err := f.uc.Acquire(ctx, AcquireRequest{RequestID: req.ID, SellerID: sellerID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Request.Stock)
	assert.Equal(t, string(buyback.StatusApproved), first.Request.Status)

	listing, err := f.books.FindByID(ctx, first.BookID)
	require.NoError(t, err)
	assert.Equal(t, book.ConditionUsed, listing.Condition)
	assert.Equal(t, sellerID, listing.SellerID)
	assert.Equal(t, int64(150_00), listing.Price)
	assert.Equal(t, 2, listing.Stock)

	last, err := f.uc.Acquire(ctx, AcquireRequest{RequestID: req.ID, SellerID: sellerID, Quantity: 1})
	require.NoError(t, err)
	assert.Zero(t, last.Request.Stock)
	assert.Equal(t, string(buyback.StatusSold), last.Request.Status)

	_, err = f.uc.Acquire(ctx, AcquireRequest{RequestID: req.ID, SellerID: sellerID, Quantity: 1})
	assert.ErrorIs(t, err, buyback.ErrNotAvailable)

	available, err := f.uc.ListAvailable(ctx, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, available.Total)
}

func TestAcquire_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.approved(t, "", 2)

	_, err := f.uc.Acquire(ctx, AcquireRequest{RequestID: req.ID, SellerID: sellerID, Quantity: 3})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	_, total, err := f.books.List(ctx, book.ListParams{SellerID: sellerID, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Zero(t, total, "no listing without reserved units")

	_, err = f.uc.Acquire(ctx, AcquireRequest{RequestID: req.ID, SellerID: sellerID, Quantity: 0})
	assert.ErrorIs(t, err, buyback.ErrInvalidQuantity)
}

func TestAcquire_ListingFailureReleasesUnits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// An ISBN the catalog refuses makes the listing step fail after units were reserved.
	req := f.approved(t, "12345", 2)

	_, err := f.uc.Acquire(ctx, AcquireRequest{RequestID: req.ID, SellerID: sellerID, Quantity: 2})
	assert.ErrorIs(t, err, book.ErrInvalidISBN)

	mine, err := f.uc.ListAll(ctx, string(buyback.StatusApproved), 1, 20)
	require.NoError(t, err)
	require.Len(t, mine.Requests, 1)
	assert.Equal(t, 2, mine.Requests[0].Stock, "units given back")
	assert.Equal(t, string(buyback.StatusApproved), mine.Requests[0].Status, "sold is undone with the stock")
}

func TestListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.approved(t, "", 1)
	_, err := f.uc.Submit(ctx, SubmitRequest{UserID: 2, Title: "T", Author: "A", OfferedPrice: 10})
	require.NoError(t, err)

	mine, err := f.uc.ListMine(ctx, customerID, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.Total)
	assert.Equal(t, 1, mine.Page)
	assert.Equal(t, 20, mine.PageSize)

	all, err := f.uc.ListAll(ctx, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	_, err = f.uc.ListAll(ctx, "lost", 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	available, err := f.uc.ListAvailable(ctx, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, available.Total)
}
