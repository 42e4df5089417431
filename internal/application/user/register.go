package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/user"
)

// RegisterUseCase signs up customers and sellers. Admin accounts are seeded at
// startup, never registered.
type RegisterUseCase struct {
	userService user.Service
	logger      *zap.Logger
}

// NewRegisterUseCase creates the registration use case.
func NewRegisterUseCase(userService user.Service, logger *zap.Logger) *RegisterUseCase {
	return &RegisterUseCase{userService: userService, logger: logger}
}

type RegisterRequest struct {
	Email        string
	Password     string
	Name         string
	Phone        string
	Role         string
	StoreName    string
	StoreAddress string
}

func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	u, err := uc.userService.Register(ctx, user.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         user.Role(req.Role),
		StoreName:    req.StoreName,
		StoreAddress: req.StoreAddress,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	info := ToUserInfo(u)
	return &info, nil
}

// UserInfo is the public view of an account; the password hash never leaves the domain.
type UserInfo struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	StoreName    string    `json:"store_name,omitempty"`
	StoreAddress string    `json:"store_address,omitempty"`
	Department   string    `json:"department,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToUserInfo(u *user.User) UserInfo {
	return UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		Role:         string(u.Role),
		StoreName:    u.StoreName,
		StoreAddress: u.StoreAddress,
		Department:   u.Department,
		CreatedAt:    u.CreatedAt,
	}
}
