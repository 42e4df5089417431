package user

import "context"

// Repository persists accounts. Lookups return ErrUserNotFound for unknown
// users; Create returns ErrEmailDuplicate when the email is already registered.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Update writes profile fields and the password hash; email and role are fixed.
	Update(ctx context.Context, u *User) error
}
