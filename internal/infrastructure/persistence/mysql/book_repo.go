package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/domain/search"
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates the book repository.
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "failed to create book")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) CreateBatch(ctx context.Context, books []*book.Book) error {
	models := make([]*BookModel, len(books))
	for i, b := range books {
		models[i] = toBookModel(b)
	}

	err := dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(models, 50).Error
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to create books")
	}

	for i, m := range models {
		books[i].ID = m.ID
		books[i].CreatedAt = m.CreatedAt
		books[i].UpdatedAt = m.UpdatedAt
	}
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "failed to load book")
	}
	return toBookEntity(&model), nil
}

func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]*book.Book, error) {
	result := make(map[uint]*book.Book, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var models []BookModel
	if err := dbFrom(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "failed to load books")
	}
	for i := range models {
		result[models[i].ID] = toBookEntity(&models[i])
	}
	return result, nil
}

func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	model.UpdatedAt = time.Now()

	// Explicit column list: a full Save would write back a stale stock and undo
	// decrements committed since the book was loaded.
	result := dbFrom(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", b.ID).
		Select("isbn", "title", "author", "category", "description", "cover_url",
			"price", "mrp", "book_condition", "featured", "bestseller", "updated_at").
		Updates(model)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to update book")
	}
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) SetStock(ctx context.Context, id uint, stock int) error {
	if stock < 0 {
		return book.ErrInvalidStock
	}
	// MySQL reports zero affected rows when the value is unchanged, so no
	// RowsAffected check here.
	result := dbFrom(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Update("stock", stock)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to set stock")
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to delete book")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	query := dbFrom(ctx, r.db).Model(&BookModel{})

	if params.Keyword != "" {
		pattern := "%" + search.EscapeLike(params.Keyword) + "%"
		query = query.Where("(title LIKE ? ESCAPE '!' OR author LIKE ? ESCAPE '!' OR isbn LIKE ? ESCAPE '!')",
			pattern, pattern, pattern)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Condition != "" {
		query = query.Where("book_condition = ?", string(params.Condition))
	}
	if params.MinPrice > 0 {
		query = query.Where("price >= ?", params.MinPrice)
	}
	if params.MaxPrice > 0 {
		query = query.Where("price <= ?", params.MaxPrice)
	}
	if params.SellerID != 0 {
		query = query.Where("seller_id = ?", params.SellerID)
	}
	if params.InStock {
		query = query.Where("stock > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count books")
	}

	switch params.SortBy {
	case book.SortPriceAsc:
		query = query.Order("price ASC")
	case book.SortPriceDesc:
		query = query.Order("price DESC")
	case book.SortTitle:
		query = query.Order("title ASC")
	default:
		query = query.Order("created_at DESC")
	}
	query = query.Order("id DESC")

	var models []BookModel
	offset := (params.Page - 1) * params.PageSize
	if err := query.Limit(params.PageSize).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list books")
	}

	return toBookEntities(models), total, nil
}

func (r *bookRepository) ListFeatured(ctx context.Context, limit int) ([]*book.Book, error) {
	return r.listFlagged(ctx, "featured", limit)
}

func (r *bookRepository) ListBestsellers(ctx context.Context, limit int) ([]*book.Book, error) {
	return r.listFlagged(ctx, "bestseller", limit)
}

func (r *bookRepository) listFlagged(ctx context.Context, column string, limit int) ([]*book.Book, error) {
	var models []BookModel
	err := dbFrom(ctx, r.db).
		Where(column+" = ?", true).
		Where("stock > 0").
		Order("updated_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list "+column+" books")
	}
	return toBookEntities(models), nil
}

// UpdateStock is a single conditional UPDATE, so concurrent orders can never drive
// stock below zero:
//
//	UPDATE books SET stock = stock + ? WHERE id = ? AND stock + ? >= 0
//
// Zero affected rows means the book is missing or the stock was insufficient.
func (r *bookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	db := dbFrom(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ?", id).
		Where("stock + ? >= 0", delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to update stock")
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&BookModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "failed to load book")
		}
		if count == 0 {
			return book.ErrBookNotFound
		}
		return book.ErrInsufficientStock
	}
	return nil
}

// ============================================================
// Mapping
// ============================================================

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ISBN:        b.ISBN,
		Title:       b.Title,
		Author:      b.Author,
		Category:    b.Category,
		Description: b.Description,
		CoverURL:    b.CoverURL,
		Price:       b.Price,
		MRP:         b.MRP,
		Stock:       b.Stock,
		Condition:   string(b.Condition),
		SellerID:    b.SellerID,
		Featured:    b.Featured,
		Bestseller:  b.Bestseller,
	}
}

func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:          m.ID,
		ISBN:        m.ISBN,
		Title:       m.Title,
		Author:      m.Author,
		Category:    m.Category,
		Description: m.Description,
		CoverURL:    m.CoverURL,
		Price:       m.Price,
		MRP:         m.MRP,
		Stock:       m.Stock,
		Condition:   book.Condition(m.Condition),
		SellerID:    m.SellerID,
		Featured:    m.Featured,
		Bestseller:  m.Bestseller,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
