package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"github.com/boipara/bookstore/internal/domain/user"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/mysql"
	apperrors "github.com/boipara/bookstore/pkg/errors"
	"github.com/boipara/bookstore/pkg/jwt"
)

type fakeRevoker struct {
	revoked map[string]time.Duration
}

func (r *fakeRevoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	r.revoked[token] = ttl
	return nil
}

type fixture struct {
	register *RegisterUseCase
	login    *LoginUseCase
	logout   *LogoutUseCase
	profile  *ProfileUseCase
	revoker  *fakeRevoker
	jwt      *jwt.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := mysql.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", logger.Silent)
	require.NoError(t, err)

	repo := mysql.NewUserRepository(db)
	service := user.NewService(repo)
	f := &fixture{
		revoker: &fakeRevoker{revoked: map[string]time.Duration{}},
		jwt:     jwt.NewManager("test-secret", 7*24*time.Hour, 30*24*time.Hour),
	}
	f.register = NewRegisterUseCase(service, zap.NewNop())
	f.login = NewLoginUseCase(service, f.jwt, zap.NewNop())
	f.logout = NewLogoutUseCase(f.revoker, zap.NewNop())
	f.profile = NewProfileUseCase(repo, service)
	return f
}

func strPtr(s string) *string { return &s }

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	info, err := f.register.Execute(ctx, RegisterRequest{
		Email: "Seller@Example.com", Password: "secret123", Name: "Nilkhet Books",
		Role: "seller", StoreName: "Nilkhet", StoreAddress: "Nilkhet Road",
	})
	require.NoError(t, err)
	assert.Equal(t, "seller@example.com", info.Email)
	assert.Equal(t, "Nilkhet", info.StoreName)

	_, err = f.register.Execute(ctx, RegisterRequest{Email: "seller@example.com", Password: "secret123", Name: "Again"})
	assert.ErrorIs(t, err, user.ErrEmailDuplicate)

	_, err = f.register.Execute(ctx, RegisterRequest{Email: "boss@example.com", Password: "secret123", Name: "Boss", Role: "admin"})
	assert.ErrorIs(t, err, user.ErrInvalidRole)

	resp, err := f.login.Execute(ctx, LoginRequest{Email: "seller@example.com", Password: "secret123"})
	require.NoError(t, err)
	claims, err := f.jwt.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, info.ID, claims.UserID)
	assert.Equal(t, "seller", claims.Role)

	_, err = f.login.Execute(ctx, LoginRequest{Email: "seller@example.com", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	_, err = f.login.Execute(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.logout.Execute(ctx, 1, "token-a", time.Hour))
	assert.Equal(t, time.Hour, f.revoker.revoked["token-a"])

	require.NoError(t, f.logout.Execute(ctx, 1, "token-b", 0))
	assert.NotContains(t, f.revoker.revoked, "token-b", "expired tokens need no blacklist entry")

	noRedis := NewLogoutUseCase(nil, zap.NewNop())
	assert.NoError(t, noRedis.Execute(ctx, 1, "token-c", time.Hour))
}

func TestProfile_RoleTaggedUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer, err := f.register.Execute(ctx, RegisterRequest{Email: "rahim@example.com", Password: "secret123", Name: "Rahim"})
	require.NoError(t, err)

	updated, err := f.profile.Update(ctx, customer.ID, user.RoleCustomer, UpdateProfileRequest{Name: strPtr("Rahim Uddin"), Phone: strPtr("01711111111")})
	require.NoError(t, err)
	assert.Equal(t, "Rahim Uddin", updated.Name)
	assert.Equal(t, "01711111111", updated.Phone)

	_, err = f.profile.Update(ctx, customer.ID, user.RoleCustomer, UpdateProfileRequest{StoreName: strPtr("Mine")})
	assert.ErrorIs(t, err, user.ErrProfileRoleMismatch)
	_, err = f.profile.Update(ctx, customer.ID, user.RoleCustomer, UpdateProfileRequest{Department: strPtr("Ops")})
	assert.ErrorIs(t, err, user.ErrProfileRoleMismatch)
	_, err = f.profile.Update(ctx, customer.ID, user.RoleCustomer, UpdateProfileRequest{})
	assert.ErrorIs(t, err, user.ErrEmptyProfileUpdate)

	// A role claim that disagrees with the stored account is refused by the domain.
	_, err = f.profile.Update(ctx, customer.ID, user.RoleSeller, UpdateProfileRequest{StoreName: strPtr("Mine")})
	assert.ErrorIs(t, err, user.ErrProfileRoleMismatch)

	got, err := f.profile.Get(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rahim Uddin", got.Name)
	assert.Empty(t, got.StoreName)

	_, err = f.profile.Get(ctx, 999)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
