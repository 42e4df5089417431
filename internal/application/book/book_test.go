package book

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/mysql"
)

type fixture struct {
	repo    book.Repository
	publish *PublishBookUseCase
	list    *ListBooksUseCase
	manage  *ManageBookUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := mysql.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", logger.Silent)
	require.NoError(t, err)

	repo := mysql.NewBookRepository(db)
	service := book.NewService(repo)
	return &fixture{
		repo:    repo,
		publish: NewPublishBookUseCase(service, zap.NewNop()),
		list:    NewListBooksUseCase(service, repo),
		manage:  NewManageBookUseCase(service, zap.NewNop()),
	}
}

func request(title string, price int64) PublishBookRequest {
	return PublishBookRequest{Title: title, Author: "Humayun Ahmed", Category: "Fiction", Price: price, MRP: price + 50_00, Stock: 3}
}

func TestPublish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := request("Himu", 200_00)
	req.SellerID = 7
	got, err := f.publish.Execute(ctx, req)
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "new", got.Condition)
	assert.Equal(t, 20, got.Discount)
	assert.True(t, got.InStock)

	bad := request("Misir Ali", 0)
	bad.SellerID = 7
	_, err = f.publish.Execute(ctx, bad)
	assert.ErrorIs(t, err, book.ErrInvalidPrice)
}

func TestPublishBulk_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reqs := []PublishBookRequest{request("Himu", 200_00), request("Shuvro", 150_00)}
	got, err := f.publish.ExecuteBulk(ctx, 7, reqs)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint(7), got[1].SellerID)

	broken := []PublishBookRequest{request("Debi", 100_00), {Title: "No author", Price: 10_00}}
	_, err = f.publish.ExecuteBulk(ctx, 7, broken)
	assert.ErrorIs(t, err, book.ErrMissingTitleOrAuthor)

	tooMany := make([]PublishBookRequest, book.MaxBulkSize+1)
	for i := range tooMany {
		tooMany[i] = request(fmt.Sprintf("Book %d", i), 10_00)
	}
	_, err = f.publish.ExecuteBulk(ctx, 7, tooMany)
	assert.ErrorIs(t, err, book.ErrBulkTooLarge)

	mine, err := f.list.ListMine(ctx, 7, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.Total)
}

func TestManage_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := request("Himu", 200_00)
	req.SellerID = 7
	b, err := f.publish.Execute(ctx, req)
	require.NoError(t, err)

	price := int64(180_00)
	_, err = f.manage.Update(ctx, b.ID, 8, book.Patch{Price: &price})
	assert.ErrorIs(t, err, book.ErrNotOwner)

	updated, err := f.manage.Update(ctx, b.ID, 7, book.Patch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, price, updated.Price)

	assert.ErrorIs(t, f.manage.Delete(ctx, b.ID, 8), book.ErrNotOwner)
	require.NoError(t, f.manage.Delete(ctx, b.ID, 7))
	_, err = f.list.Get(ctx, b.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

// racingRepo commits a stock decrement between the service's read and its write.
type racingRepo struct {
	book.Repository
	delta int
}

func (r *racingRepo) Update(ctx context.Context, b *book.Book) error {
	if err := r.Repository.UpdateStock(ctx, b.ID, r.delta); err != nil {
		return err
	}
	return r.Repository.Update(ctx, b)
}

func TestManage_EditKeepsConcurrentStockChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := request("Nondito Noroke", 220_00)
	req.SellerID = 7
	req.Stock = 5
	b, err := f.publish.Execute(ctx, req)
	require.NoError(t, err)

	manage := NewManageBookUseCase(book.NewService(&racingRepo{Repository: f.repo, delta: -3}), zap.NewNop())

	title := "Nondito Noroke (reprint)"
	updated, err := manage.Update(ctx, b.ID, 7, book.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, 2, updated.Stock, "title edit must not restore sold units")

	got, err := f.list.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)

	stock := 10
	updated, err = f.manage.Update(ctx, b.ID, 7, book.Patch{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Stock)
}

func TestList_FiltersAndPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i, price := range []int64{100_00, 300_00, 200_00} {
		req := request(fmt.Sprintf("Book %c", 'A'+i), price)
		req.SellerID = 7
		_, err := f.publish.Execute(ctx, req)
		require.NoError(t, err)
	}

	_, err := f.list.Execute(ctx, ListBooksRequest{Condition: "mint"})
	assert.ErrorIs(t, err, book.ErrInvalidCondition)

	page, err := f.list.Execute(ctx, ListBooksRequest{SortBy: "price_desc", PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.List, 2)
	assert.Equal(t, int64(300_00), page.List[0].Price)

	cheap, err := f.list.Execute(ctx, ListBooksRequest{MaxPrice: 200_00, SortBy: "whatever"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, cheap.Total)
	assert.Equal(t, 1, cheap.Page)
	assert.Equal(t, book.DefaultPageSize, cheap.PageSize)
}

func TestShowcases_Capped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < ShowcaseLimit+3; i++ {
		b := book.NewBook(7, fmt.Sprintf("Featured %d", i), "A", "", "", 10_00, 0, 1, book.ConditionNew)
		b.Featured = true
		b.Bestseller = i%2 == 0
		require.NoError(t, f.repo.Create(ctx, b))
	}

	featured, err := f.list.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, ShowcaseLimit)

	bestsellers, err := f.list.Bestsellers(ctx)
	require.NoError(t, err)
	assert.Len(t, bestsellers, 8)
}
