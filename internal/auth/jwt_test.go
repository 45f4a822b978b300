package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	issuer := NewIssuer("secret", 0)
	assert.Equal(t, DefaultTTL, issuer.TTL())

	token, expiresAt, err := issuer.GenerateJWT(7, "Ana", "a@x.com", true)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := issuer.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.ID)
	assert.Equal(t, "Ana", claims.Nombre)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.True(t, claims.Admin)
	assert.Equal(t, "7", claims.Subject)
}

func TestVerifyRejects(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)

	expired := NewIssuer("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expiredToken, _, err := expired.GenerateJWT(1, "Ana", "a@x.com", false)
	require.NoError(t, err)

	foreignToken, _, err := NewIssuer("other", time.Minute).GenerateJWT(1, "Ana", "a@x.com", false)
	require.NoError(t, err)

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, Claims{
		ID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: 1}).SignedString([]byte("secret"))
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
		{"wrong algorithm", hs384},
		{"missing expiry", noExpiry},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := issuer.VerifyJWT(tc.token)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}
