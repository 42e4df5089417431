package book

import (
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

var (
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "book not found")

	ErrMissingTitleOrAuthor = apperrors.New(apperrors.ErrCodeValidation, "title and author are required")

	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeValidation, "price must be greater than 0")

	ErrInvalidStock = apperrors.New(apperrors.ErrCodeValidation, "stock cannot be negative")

	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeValidation, "quantity must be greater than 0")

	ErrInvalidCondition = apperrors.New(apperrors.ErrCodeValidation, "condition must be one of new, like-new, used")

	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "insufficient stock")

	ErrNotOwner = apperrors.New(apperrors.ErrCodeForbidden, "you can only modify your own listings")

	ErrBulkTooLarge = apperrors.New(apperrors.ErrCodeValidation, "bulk upload accepts at most 100 books")
)

var ErrInvalidISBN = apperrors.New(apperrors.ErrCodeValidation, "ISBN must be 10 or 13 digits")
