package notification

import (
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

var (
	ErrNotificationNotFound = apperrors.New(apperrors.ErrCodeNotificationNotFound, "notification not found")

	ErrNotOwner = apperrors.New(apperrors.ErrCodeForbidden, "this notification does not belong to you")

	ErrEmptyContent = apperrors.New(apperrors.ErrCodeValidation, "notification needs a user, title and message")
)
