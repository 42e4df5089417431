package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/boipara/bookstore/internal/domain/search"
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

// scoreExpr ranks a book against the query patterns. Each CASE adds its weight
// independently, so one field can contribute more than once.
const scoreExpr = "(" +
	"CASE WHEN LOWER(title) LIKE @prefix ESCAPE '!' OR LOWER(title) LIKE @word ESCAPE '!' THEN @wPrefix ELSE 0 END + " +
	"CASE WHEN LOWER(title) LIKE @contains ESCAPE '!' THEN @wTitle ELSE 0 END + " +
	"CASE WHEN LOWER(author) LIKE @contains ESCAPE '!' THEN @wAuthor ELSE 0 END + " +
	"CASE WHEN LOWER(isbn) LIKE @contains ESCAPE '!' THEN @wISBN ELSE 0 END + " +
	"CASE WHEN LOWER(category) LIKE @contains ESCAPE '!' THEN @wCategory ELSE 0 END" +
	")"

type searchRepository struct {
	db *gorm.DB
}

// NewSearchRepository creates the ranked suggestion query store.
func NewSearchRepository(db *gorm.DB) search.Repository {
	return &searchRepository{db: db}
}

type suggestionRow struct {
	ID       uint
	Title    string
	Author   string
	Category string
	ISBN     string
	Price    int64
	CoverURL string
	Score    int
}

func (r *searchRepository) Suggest(ctx context.Context, q search.Query) ([]search.Suggestion, error) {
	p := q.Patterns()
	args := map[string]interface{}{
		"prefix":    p.Prefix,
		"word":      p.WordPrefix,
		"contains":  p.Contains,
		"wPrefix":   search.WeightTitlePrefix,
		"wTitle":    search.WeightTitleSubstring,
		"wAuthor":   search.WeightAuthor,
		"wISBN":     search.WeightISBN,
		"wCategory": search.WeightCategory,
	}

	db := dbFrom(ctx, r.db).WithContext(ctx)
	ranked := db.Model(&BookModel{}).
		Select("id, title, author, category, isbn, price, cover_url, "+scoreExpr+" AS score", args)

	var rows []suggestionRow
	err := db.Table("(?) AS ranked", ranked).
		Where("score > 0").
		Order("score DESC").
		Order("title ASC").
		Limit(q.Limit).
		Scan(&rows).Error
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, search.ErrSearchTimeout
		}
		return nil, apperrors.Wrap(err, "failed to query suggestions")
	}

	out := make([]search.Suggestion, len(rows))
	for i, row := range rows {
		out[i] = search.Suggestion{
			BookID:   row.ID,
			Title:    row.Title,
			Author:   row.Author,
			Category: row.Category,
			ISBN:     row.ISBN,
			Price:    row.Price,
			CoverURL: row.CoverURL,
			Score:    row.Score,
		}
	}
	return out, nil
}
