package book

import (
	"context"

	"github.com/boipara/bookstore/internal/domain/book"
)

// ShowcaseLimit caps the featured and bestseller shelves.
const ShowcaseLimit = 12

// ListBooksUseCase is the read side of the catalog.
type ListBooksUseCase struct {
	bookService book.Service
	bookRepo    book.Repository
}

// NewListBooksUseCase creates the catalog query use case.
func NewListBooksUseCase(bookService book.Service, bookRepo book.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService, bookRepo: bookRepo}
}

type ListBooksRequest struct {
	Page      int
	PageSize  int
	Keyword   string // title, author or ISBN
	Category  string
	Condition string
	MinPrice  int64
	MaxPrice  int64
	SellerID  uint
	InStock   bool
	SortBy    string // price_asc | price_desc | newest | title
}

func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	params := book.ListParams{
		Page:      req.Page,
		PageSize:  req.PageSize,
		Keyword:   req.Keyword,
		Category:  req.Category,
		Condition: book.Condition(req.Condition),
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		SellerID:  req.SellerID,
		InStock:   req.InStock,
		SortBy:    req.SortBy,
	}
	if params.Condition != "" && !params.Condition.Valid() {
		return nil, book.ErrInvalidCondition
	}
	switch params.SortBy {
	case book.SortPriceAsc, book.SortPriceDesc, book.SortTitle:
	default:
		params.SortBy = book.SortNewest
	}
	params.Normalize()

	books, total, err := uc.bookService.List(ctx, params)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize != 0 {
		totalPages++
	}
	return &ListBooksResponse{
		List:       toBookDTOs(books),
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListMine is the seller's own listings, out-of-stock ones included.
func (uc *ListBooksUseCase) ListMine(ctx context.Context, sellerID uint, page, pageSize int) (*ListBooksResponse, error) {
	return uc.Execute(ctx, ListBooksRequest{SellerID: sellerID, Page: page, PageSize: pageSize})
}

func (uc *ListBooksUseCase) Get(ctx context.Context, id uint) (*BookDTO, error) {
	b, err := uc.bookService.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToBookDTO(b)
	return &dto, nil
}

func (uc *ListBooksUseCase) Featured(ctx context.Context) ([]BookDTO, error) {
	books, err := uc.bookRepo.ListFeatured(ctx, ShowcaseLimit)
	if err != nil {
		return nil, err
	}
	return toBookDTOs(books), nil
}

func (uc *ListBooksUseCase) Bestsellers(ctx context.Context) ([]BookDTO, error) {
	books, err := uc.bookRepo.ListBestsellers(ctx, ShowcaseLimit)
	if err != nil {
		return nil, err
	}
	return toBookDTOs(books), nil
}
