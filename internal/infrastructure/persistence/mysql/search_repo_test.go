package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/domain/search"
)

func TestSearchRepository_Suggest_Ranking(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db)
	repo := NewSearchRepository(db)
	ctx := context.Background()

	// "en" scores: title prefix 10 + title substring 5 = 15
	seedBook(t, books, 1, "English Grammar", "Anon", 100_00, 1)
	// title word prefix 10 + substring 5 + author 3 = 18
	seedBook(t, books, 1, "Modern English", "Ben Okri", 100_00, 1)
	// title substring 5
	seedBook(t, books, 1, "Stolen Sky", "Anon", 100_00, 1)
	// author 3
	seedBook(t, books, 1, "Himu", "Glen Jones", 100_00, 1)
	seedBook(t, books, 1, "No Match", "Anon", 100_00, 1)

	q, ok := search.ParseQuery("  EN ")
	require.True(t, ok)
	got, err := repo.Suggest(ctx, q)
	require.NoError(t, err)

	titles := make([]string, len(got))
	for i, s := range got {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"Modern English", "English Grammar", "Stolen Sky", "Himu"}, titles)
	assert.Equal(t, 18, got[0].Score)
	assert.Equal(t, 15, got[1].Score)
}

func TestSearchRepository_Suggest_TiesByTitleAndLimit(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db)
	repo := NewSearchRepository(db)
	ctx := context.Background()

	for _, title := range []string{"Kb", "Ka", "Kj", "Ki", "Kh", "Kg", "Kf", "Ke", "Kd", "Kc"} {
		b := book.NewBook(1, title, "Anon", "", "Poetry", 100_00, 100_00, 1, book.ConditionNew)
		require.NoError(t, books.Create(ctx, b))
	}

	q, ok := search.ParseQuery("poetry")
	require.True(t, ok)
	got, err := repo.Suggest(ctx, q)
	require.NoError(t, err)
	require.Len(t, got, search.MaxSuggestions)
	assert.Equal(t, "Ka", got[0].Title)
	assert.Equal(t, 1, got[0].Score)
}

func TestSearchRepository_Suggest_EscapesWildcards(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db)
	repo := NewSearchRepository(db)
	ctx := context.Background()
	seedBook(t, books, 1, "Fifty Shades", "Anon", 100_00, 1)
	seedBook(t, books, 1, "50% Off", "Anon", 100_00, 1)

	q, ok := search.ParseQuery("0%")
	require.True(t, ok)
	got, err := repo.Suggest(ctx, q)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "50% Off", got[0].Title)
}

func TestSearchRepository_Suggest_SkipsDeleted(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db)
	repo := NewSearchRepository(db)
	ctx := context.Background()
	b := seedBook(t, books, 1, "Deleted Title", "Anon", 100_00, 1)
	require.NoError(t, books.Delete(ctx, b.ID))

	q, _ := search.ParseQuery("deleted")
	got, err := repo.Suggest(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, got)
}
