package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/book"
)

// ManageBookUseCase edits and removes a seller's own listings.
type ManageBookUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewManageBookUseCase creates the listing edit use case.
func NewManageBookUseCase(bookService book.Service, logger *zap.Logger) *ManageBookUseCase {
	return &ManageBookUseCase{bookService: bookService, logger: logger}
}

func (uc *ManageBookUseCase) Update(ctx context.Context, id, sellerID uint, patch book.Patch) (*BookDTO, error) {
	b, err := uc.bookService.Update(ctx, id, sellerID, patch)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("book updated", zap.Uint("book_id", id), zap.Uint("seller_id", sellerID))
	dto := ToBookDTO(b)
	return &dto, nil
}

// Delete soft-deletes the listing; past orders keep their snapshots.
func (uc *ManageBookUseCase) Delete(ctx context.Context, id, sellerID uint) error {
	if err := uc.bookService.Delete(ctx, id, sellerID); err != nil {
		return err
	}
	uc.logger.Info("book deleted", zap.Uint("book_id", id), zap.Uint("seller_id", sellerID))
	return nil
}
