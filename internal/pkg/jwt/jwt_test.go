package jwt

import (
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestGenerateAccessToken(t *testing.T) {
	t.Parallel()

	svc := NewJWTService(testSecret, "1h")

	tokenString, expiresAt, err := svc.GenerateAccessToken("user-1", "admin@example.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.Greater(t, expiresAt, int64(0))

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	userID, _ := token.Get("user_id")
	assert.Equal(t, "user-1", userID)
	email, _ := token.Get("email")
	assert.Equal(t, "admin@example.com", email)
	tokenType, _ := token.Get("type")
	assert.Equal(t, "access", tokenType)
}

func TestGenerateAccessToken_BadExpiration(t *testing.T) {
	t.Parallel()

	svc := NewJWTService(testSecret, "not-a-duration")

	_, _, err := svc.GenerateAccessToken("user-1", "admin@example.com", "admin")
	assert.Error(t, err)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewJWTService(testSecret, "1h")
	verifier := NewJWTService("a-different-secret", "1h")

	tokenString, _, err := issuer.GenerateAccessToken("user-1", "admin@example.com", "admin")
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(verifier.JWTAuth(), tokenString)
	assert.Error(t, err)
}
