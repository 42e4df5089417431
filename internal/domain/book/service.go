package book

import (
	"context"
	"regexp"
	"strings"
)

// MaxBulkSize caps a single bulk upload.
const MaxBulkSize = 100

// Service holds catalog rules that span more than one entity call:
// ownership checks, ISBN format, bulk limits.
type Service interface {
	Publish(ctx context.Context, b *Book) error

	PublishBatch(ctx context.Context, books []*Book) error

	Get(ctx context.Context, id uint) (*Book, error)

	Update(ctx context.Context, id, sellerID uint, patch Patch) (*Book, error)

	Delete(ctx context.Context, id, sellerID uint) error

	List(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

type service struct {
	repo Repository
}

// NewService returns the catalog service backed by repo.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Publish(ctx context.Context, b *Book) error {
	if err := validateForPublish(b); err != nil {
		return err
	}
	return s.repo.Create(ctx, b)
}

func (s *service) PublishBatch(ctx context.Context, books []*Book) error {
	if len(books) == 0 {
		return ErrMissingTitleOrAuthor
	}
	if len(books) > MaxBulkSize {
		return ErrBulkTooLarge
	}
	for _, b := range books {
		if err := validateForPublish(b); err != nil {
			return err
		}
	}
	return s.repo.CreateBatch(ctx, books)
}

func (s *service) Get(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id, sellerID uint, patch Patch) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(sellerID) {
		return nil, ErrNotOwner
	}

	if err := b.Apply(patch); err != nil {
		return nil, err
	}
	if !isValidISBN(b.ISBN) {
		return nil, ErrInvalidISBN
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	if patch.Stock != nil {
		if err := s.repo.SetStock(ctx, id, *patch.Stock); err != nil {
			return nil, err
		}
	}
	// Reload: orders may have moved stock since the first read.
	return s.repo.FindByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id, sellerID uint) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !b.IsOwnedBy(sellerID) {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

func validateForPublish(b *Book) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if !isValidISBN(b.ISBN) {
		return ErrInvalidISBN
	}
	return nil
}

var isbnPattern = regexp.MustCompile(`^(\d{9}[\dX]|\d{13})$`)

// isValidISBN accepts an empty ISBN (used copies often lack one) or ISBN-10/13, hyphens ignored.
func isValidISBN(isbn string) bool {
	if isbn == "" {
		return true
	}
	return isbnPattern.MatchString(strings.ReplaceAll(strings.ToUpper(isbn), "-", ""))
}
