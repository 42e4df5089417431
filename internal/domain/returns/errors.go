package returns

import (
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

var (
	ErrReturnNotFound = apperrors.New(apperrors.ErrCodeReturnNotFound, "return request not found")

	ErrInvalidTransition = apperrors.New(apperrors.ErrCodeInvalidState, "return status does not allow this change")

	ErrNotApproved = apperrors.New(apperrors.ErrCodeInvalidState, "return must be approved by an admin before the refund")

	ErrOrderNotDelivered = apperrors.New(apperrors.ErrCodeInvalidState, "only delivered orders can be returned")

	ErrReturnExists = apperrors.New(apperrors.ErrCodeInvalidState, "a return for this order is already open")

	ErrNotReturnSeller = apperrors.New(apperrors.ErrCodeForbidden, "this return belongs to another seller")

	ErrNoItems = apperrors.New(apperrors.ErrCodeValidation, "select at least one item to return")

	ErrItemNotInOrder = apperrors.New(apperrors.ErrCodeValidation, "returned item is not part of the order")

	ErrQuantityExceeded = apperrors.New(apperrors.ErrCodeValidation, "return quantity exceeds ordered quantity")

	ErrMixedSellers = apperrors.New(apperrors.ErrCodeValidation, "a return can only contain items from one seller")

	ErrMissingReason = apperrors.New(apperrors.ErrCodeValidation, "a reason is required")

	ErrInvalidRefundAmount = apperrors.New(apperrors.ErrCodeValidation, "refund amount must be between 0 and the returned items total")
)
