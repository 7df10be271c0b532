package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	tok, err := m.Issue("665f1c2b9a1e4b0012345678")
	require.NoError(t, err)

	id, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "665f1c2b9a1e4b0012345678", id)
}

func TestVerifyRejects(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewTokenManager("secret", time.Hour)
	m.now = func() time.Time { return issuedAt }
	tok, err := m.Issue("user-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token func() (string, *TokenManager)
		want  error
	}{
		{"expired", func() (string, *TokenManager) {
			later := NewTokenManager("secret", time.Hour)
			later.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
			return tok, later
		}, ErrExpiredToken},
		{"wrong secret", func() (string, *TokenManager) {
			other := NewTokenManager("other", time.Hour)
			other.now = m.now
			return tok, other
		}, ErrInvalidToken},
		{"garbage", func() (string, *TokenManager) { return "not.a.token", m }, ErrInvalidToken},
		{"none alg", func() (string, *TokenManager) {
			s, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
			return s, m
		}, ErrInvalidToken},
		{"missing id", func() (string, *TokenManager) {
			s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("secret"))
			return s, m
		}, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, verifier := tt.token()
			_, err := verifier.Verify(s)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
}
