package mysql

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/boipara/bookstore/internal/domain/book"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedBook(t *testing.T, repo book.Repository, sellerID uint, title, author string, price int64, stock int) *book.Book {
	t.Helper()
	b := book.NewBook(sellerID, title, author, "", "Fiction", price, price, stock, book.ConditionNew)
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}
