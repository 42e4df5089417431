package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/book"
)

// PublishBookUseCase lists new books for a seller, one at a time or in bulk.
type PublishBookUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewPublishBookUseCase creates the publish use case.
func NewPublishBookUseCase(bookService book.Service, logger *zap.Logger) *PublishBookUseCase {
	return &PublishBookUseCase{bookService: bookService, logger: logger}
}

type PublishBookRequest struct {
	ISBN        string
	Title       string
	Author      string
	Category    string
	Description string
	CoverURL    string
	Price       int64 // paisa
	MRP         int64 // paisa; defaults to Price
	Stock       int
	Condition   string
	SellerID    uint // from the auth middleware
}

func (r PublishBookRequest) toBook() *book.Book {
	b := book.NewBook(r.SellerID, r.Title, r.Author, r.ISBN, r.Category, r.Price, r.MRP, r.Stock, book.Condition(r.Condition))
	b.Description = r.Description
	b.CoverURL = r.CoverURL
	return b
}

func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookDTO, error) {
	b := req.toBook()
	if err := uc.bookService.Publish(ctx, b); err != nil {
		return nil, err
	}

	uc.logger.Info("book published", zap.Uint("book_id", b.ID), zap.Uint("seller_id", b.SellerID))
	dto := ToBookDTO(b)
	return &dto, nil
}

// ExecuteBulk publishes up to 100 books for sellerID; one invalid book rejects
// the whole batch.
func (uc *PublishBookUseCase) ExecuteBulk(ctx context.Context, sellerID uint, reqs []PublishBookRequest) ([]BookDTO, error) {
	books := make([]*book.Book, len(reqs))
	for i, req := range reqs {
		req.SellerID = sellerID
		books[i] = req.toBook()
	}
	if err := uc.bookService.PublishBatch(ctx, books); err != nil {
		return nil, err
	}

	uc.logger.Info("books published in bulk", zap.Uint("seller_id", sellerID), zap.Int("count", len(books)))
	return toBookDTOs(books), nil
}
