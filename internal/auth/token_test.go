package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/appeal-router/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15)

	token, expiresAt, err := tm.GenerateToken("op-1", domain.OperatorRoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)
	assert.Equal(t, domain.OperatorRoleAdmin, claims.Role)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret", 15).GenerateToken("op-1", domain.OperatorRoleOperator)
	require.NoError(t, err)

	_, err = NewTokenManager("other", 15).ParseToken(token)
	require.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", 15).ParseToken("not.a.jwt")
	require.Error(t, err)
}

func TestNewTokenManager_DefaultsTTL(t *testing.T) {
	tm := NewTokenManager("secret", 0)

	_, expiresAt, err := tm.GenerateToken("op-1", domain.OperatorRoleOperator)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	require.NoError(t, ComparePassword(hash, "s3cret"))
	require.Error(t, ComparePassword(hash, "wrong"))
}
