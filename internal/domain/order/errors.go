package order

import (
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

var (
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "order not found")

	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidState, "order status does not allow this change")

	ErrNotCancellable = apperrors.New(apperrors.ErrCodeInvalidState, "order can no longer be cancelled")

	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeValidation, "order must contain at least one item")

	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeValidation, "quantity must be greater than 0")

	ErrInvalidPaymentMethod = apperrors.New(apperrors.ErrCodeValidation, "payment method must be one of cod, bkash, nagad, card")

	ErrInvalidAddress = apperrors.New(apperrors.ErrCodeValidation, "shipping address needs name, phone, address and city")

	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeValidation, "unknown order status")

	ErrNotOrderOwner = apperrors.New(apperrors.ErrCodeForbidden, "this order does not belong to you")

	ErrNotOrderSeller = apperrors.New(apperrors.ErrCodeForbidden, "you have no items in this order")
)
