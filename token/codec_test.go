package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestDecodeExpiry(t *testing.T) {
	exp := time.Now().Add(1 * time.Hour).Truncate(time.Second)
	tok := signedToken(t, jwtlib.MapClaims{"exp": exp.Unix()})

	decoded, err := token.DecodeExpiry(tok)
	require.NoError(t, err)
	require.True(t, decoded.Equal(exp))
}

func TestDecodeExpiryEmptyToken(t *testing.T) {
	_, err := token.DecodeExpiry("  ")
	require.ErrorIs(t, err, token.EmptyTokenErr)
}

func TestDecodeExpiryGarbage(t *testing.T) {
	_, err := token.DecodeExpiry("not.a.jwt")
	require.ErrorIs(t, err, token.UndecodableErr)
}

func TestDecodeExpiryMissingClaim(t *testing.T) {
	tok := signedToken(t, jwtlib.MapClaims{"sub": "user-1"})
	_, err := token.DecodeExpiry(tok)
	require.ErrorIs(t, err, token.MissingExpiryErr)
}

func TestIsExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		token   string
		expired bool
	}{
		{"future expiry", signedToken(t, jwtlib.MapClaims{"exp": now.Add(time.Hour).Unix()}), false},
		{"past expiry", signedToken(t, jwtlib.MapClaims{"exp": now.Add(-time.Second).Unix()}), true},
		{"absent token", "", true},
		{"malformed token", "garbage", true},
		{"no expiry claim", signedToken(t, jwtlib.MapClaims{"sub": "user-1"}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expired, token.IsExpired(tt.token, now))
		})
	}
}

func TestCredentialsComplete(t *testing.T) {
	require.False(t, token.Credentials{}.Complete())
	require.False(t, token.Credentials{Access: "a"}.Complete())
	require.False(t, token.Credentials{Refresh: "r"}.Complete())
	require.False(t, token.Credentials{Access: "  ", Refresh: "r"}.Complete())
	require.True(t, token.Credentials{Access: "a", Refresh: "r"}.Complete())
}
