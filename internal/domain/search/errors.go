package search

import (
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

var (
	ErrSearchTimeout = apperrors.New(apperrors.ErrCodeTimeout, "search took too long")

	ErrEmptyQuery = apperrors.New(apperrors.ErrCodeValidation, "query must be at least 2 characters")
)
