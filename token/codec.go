package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var (
	EmptyTokenErr    = errors.New("empty access token")
	UndecodableErr   = errors.New("undecodable access token")
	MissingExpiryErr = errors.New("access token has no expiry claim")
)

// DecodeExpiry extracts the expiry claim from an access token without
// verifying the signature. The server remains the authority on token
// validity; this exists only for client-side scheduling and display.
func DecodeExpiry(accessToken string) (time.Time, error) {
	if strings.TrimSpace(accessToken) == "" {
		return time.Time{}, EmptyTokenErr
	}

	unverified, _, err := jwtlib.NewParser().ParseUnverified(accessToken, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}, errors.Wrap(UndecodableErr, err.Error())
	}

	exp, err := unverified.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, MissingExpiryErr
	}
	return exp.Time, nil
}

// IsExpired reports whether an access token should be treated as expired at
// the given time. Absent, undecodable, and expiry-less tokens are all
// expired (fail closed).
func IsExpired(accessToken string, now time.Time) bool {
	exp, err := DecodeExpiry(accessToken)
	if err != nil {
		return true
	}
	return exp.Before(now)
}
