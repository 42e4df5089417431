package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/boipara/bookstore/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("secret", 7*24*time.Hour, 30*24*time.Hour)

	pair, err := m.GenerateToken(42, "reader@boipara.test", "seller")
	require.NoError(t, err)
	assert.Equal(t, int64(7*24*3600), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "reader@boipara.test", claims.Email)
	assert.Equal(t, "seller", claims.Role)
	assert.Greater(t, claims.RemainingTTL(), 6*24*time.Hour)
}

func TestManager_ParseToken_Expired(t *testing.T) {
	m := NewManager("secret", -time.Minute, time.Hour)

	pair, err := m.GenerateToken(1, "a@b.c", "customer")
	require.NoError(t, err)

	_, err = m.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestManager_ParseToken_WrongSecret(t *testing.T) {
	pair, err := NewManager("one", time.Hour, time.Hour).GenerateToken(1, "a@b.c", "customer")
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour, time.Hour).ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
