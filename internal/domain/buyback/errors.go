package buyback

import (
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

var (
	ErrRequestNotFound = apperrors.New(apperrors.ErrCodeBuybackNotFound, "buyback request not found")

	ErrInvalidTransition = apperrors.New(apperrors.ErrCodeInvalidState, "buyback request status does not allow this change")

	ErrNotAvailable = apperrors.New(apperrors.ErrCodeInvalidState, "this buyback book is not available for purchase")

	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "not enough buyback copies left")

	ErrMissingTitleOrAuthor = apperrors.New(apperrors.ErrCodeValidation, "title and author are required")

	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeValidation, "price must be greater than 0")

	ErrInvalidStock = apperrors.New(apperrors.ErrCodeValidation, "stock must be greater than 0")

	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeValidation, "quantity must be greater than 0")
)
