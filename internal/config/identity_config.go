package config

import (
	"strconv"
	"time"
)

const (
	identityBaseURLVar = "IDENTITY_BASE_URL"
	requestTimeoutVar  = "REQUEST_TIMEOUT"
)

type IdentityConfig interface {
	GetIdentityBaseURL() string
	GetRequestTimeout() time.Duration
}

type Identity struct{}

var _ IdentityConfig = Identity{}

// GetIdentityBaseURL returns the base URL of the remote identity endpoints
// (e.g., "https://id.example.com").
func (Identity) GetIdentityBaseURL() string {
	return GetEnv(identityBaseURLVar, "http://localhost:8003")
}

func (Identity) GetRequestTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv(requestTimeoutVar, "15"))
	if err != nil || seconds <= 0 {
		seconds = 15
	}
	return time.Duration(seconds) * time.Second
}
