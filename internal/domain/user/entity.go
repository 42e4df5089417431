package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// User is an account of any role. Seller and admin fields stay empty for other roles.
type User struct {
	ID       uint
	Email    string
	Password string // bcrypt hash
	Name     string
	Phone    string
	Role     Role

	StoreName    string
	StoreAddress string

	Department string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a user; hashedPassword must already be a bcrypt hash.
func NewUser(email, hashedPassword, name string, role Role) *User {
	now := time.Now()
	return &User{
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  hashedPassword,
		Name:      strings.TrimSpace(name),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (u *User) Is(role Role) bool {
	return u.Role == role
}

// ============================================================
// Profile updates
// ============================================================

// ProfileUpdate is a role-tagged update. Each variant may only be applied to a user
// of its own role, so seller fields can never be written on a customer and so on.
type ProfileUpdate interface {
	Role() Role
	apply(u *User)
}

// CommonProfile holds the fields every role may change. Nil means unchanged.
type CommonProfile struct {
	Name  *string
	Phone *string
}

func (c CommonProfile) apply(u *User) {
	if c.Name != nil {
		u.Name = strings.TrimSpace(*c.Name)
	}
	if c.Phone != nil {
		u.Phone = strings.TrimSpace(*c.Phone)
	}
}

type CustomerProfileUpdate struct {
	CommonProfile
}

func (CustomerProfileUpdate) Role() Role { return RoleCustomer }

type SellerProfileUpdate struct {
	CommonProfile
	StoreName    *string
	StoreAddress *string
}

func (SellerProfileUpdate) Role() Role { return RoleSeller }

func (s SellerProfileUpdate) apply(u *User) {
	s.CommonProfile.apply(u)
	if s.StoreName != nil {
		u.StoreName = strings.TrimSpace(*s.StoreName)
	}
	if s.StoreAddress != nil {
		u.StoreAddress = strings.TrimSpace(*s.StoreAddress)
	}
}

type AdminProfileUpdate struct {
	CommonProfile
	Department *string
}

func (AdminProfileUpdate) Role() Role { return RoleAdmin }

func (a AdminProfileUpdate) apply(u *User) {
	a.CommonProfile.apply(u)
	if a.Department != nil {
		u.Department = strings.TrimSpace(*a.Department)
	}
}

// ApplyProfile applies update if its variant matches the user's role.
func (u *User) ApplyProfile(update ProfileUpdate) error {
	if update == nil {
		return ErrEmptyProfileUpdate
	}
	if update.Role() != u.Role {
		return ErrProfileRoleMismatch
	}
	update.apply(u)
	if u.Name == "" {
		return ErrInvalidName
	}
	u.UpdatedAt = time.Now()
	return nil
}
