package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	SetSecretKey("test-secret")
	defer SetSecretKey("")

	token, expiresAt, err := GenerateToken(ScopeSession, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, ScopeSession, claims.Scope)
	assert.Equal(t, "go-boutique-pos", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateTokenDefaultTTL(t *testing.T) {
	SetSecretKey("test-secret")
	defer SetSecretKey("")

	_, expiresAt, err := GenerateToken(ScopeRecover, 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), expiresAt, 5*time.Second)
}

func TestValidateTokenRejects(t *testing.T) {
	SetSecretKey("test-secret")
	defer SetSecretKey("")

	t.Run("garbage", func(t *testing.T) {
		_, err := ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := GenerateToken(ScopeSession, time.Hour)
		require.NoError(t, err)

		SetSecretKey("other-secret")
		_, err = ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		SetSecretKey("test-secret")
	})

	t.Run("expired", func(t *testing.T) {
		claims := &Claims{
			Scope: ScopeSession,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(GetSecretKey())
		require.NoError(t, err)

		_, err = ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
