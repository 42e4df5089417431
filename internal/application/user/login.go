package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/user"
	"github.com/boipara/bookstore/pkg/jwt"
)

type LoginUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
	logger      *zap.Logger
}

// NewLoginUseCase creates the login use case.
func NewLoginUseCase(userService user.Service, jwtManager *jwt.Manager, logger *zap.Logger) *LoginUseCase {
	return &LoginUseCase{userService: userService, jwtManager: jwtManager, logger: logger}
}

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // seconds
}

func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	pair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user logged in", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	return &LoginResponse{
		User:         ToUserInfo(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// TokenRevoker remembers revoked access tokens until they would expire anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// LogoutUseCase revokes the caller's access token. Without a revoker (no Redis)
// logout is client-side only and the token stays valid until it expires.
type LogoutUseCase struct {
	revoker TokenRevoker
	logger  *zap.Logger
}

// NewLogoutUseCase creates the logout use case. revoker may be nil.
func NewLogoutUseCase(revoker TokenRevoker, logger *zap.Logger) *LogoutUseCase {
	return &LogoutUseCase{revoker: revoker, logger: logger}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, accessToken string, remaining time.Duration) error {
	if uc.revoker == nil || remaining <= 0 {
		return nil
	}
	if err := uc.revoker.Revoke(ctx, accessToken, remaining); err != nil {
		return err
	}
	uc.logger.Info("user logged out", zap.Uint("user_id", userID))
	return nil
}
