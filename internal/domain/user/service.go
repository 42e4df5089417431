package user

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/boipara/bookstore/pkg/errors"
)

const bcryptCost = 12

type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	Phone        string
	Role         Role
	StoreName    string
	StoreAddress string
}

// Service owns credential handling.
type Service interface {
	// Register creates a customer or seller; admins are only seeded.
	Register(ctx context.Context, in RegisterInput) (*User, error)

	Login(ctx context.Context, email, password string) (*User, error)

	// EnsureAdmin creates the admin account if the email is not registered yet.
	EnsureAdmin(ctx context.Context, email, password, name string) (*User, error)

	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*User, error)
}

type service struct {
	repo Repository
}

// NewService creates the user service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.Role == "" {
		in.Role = RoleCustomer
	}
	if in.Role != RoleCustomer && in.Role != RoleSeller {
		return nil, ErrInvalidRole
	}

	u, err := s.newUser(in.Email, in.Password, in.Name, in.Role)
	if err != nil {
		return nil, err
	}
	u.Phone = in.Phone
	if in.Role == RoleSeller {
		u.StoreName = in.StoreName
		u.StoreAddress = in.StoreAddress
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// same answer as a wrong password, so emails cannot be enumerated
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "failed to verify password")
	}
	return u, nil
}

func (s *service) EnsureAdmin(ctx context.Context, email, password, name string) (*User, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	u, err := s.newUser(email, password, name, RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.ApplyProfile(update); err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(u.Name); n < 2 || n > 50 {
		return nil, ErrInvalidName
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) newUser(email, password, name string, role Role) (*User, error) {
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return nil, ErrInvalidName
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}
	return NewUser(email, string(hashed), name, role), nil
}

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
)

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 64 {
		return ErrWeakPassword
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}
