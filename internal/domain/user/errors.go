package user

import (
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

var (
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "user not found")

	ErrEmailDuplicate = apperrors.New(apperrors.ErrCodeEmailDuplicate, "email is already registered")

	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeValidation, "invalid email address")

	ErrWeakPassword = apperrors.New(apperrors.ErrCodeValidation, "password must be 8-64 characters and contain letters and digits")

	ErrInvalidName = apperrors.New(apperrors.ErrCodeValidation, "name must be 2-50 characters")

	ErrInvalidRole = apperrors.New(apperrors.ErrCodeValidation, "role must be customer or seller")

	ErrEmptyProfileUpdate = apperrors.New(apperrors.ErrCodeValidation, "nothing to update")

	ErrProfileRoleMismatch = apperrors.New(apperrors.ErrCodeValidation, "profile fields do not match your role")
)
