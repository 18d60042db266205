package session

import "errors"

var (
	NoPendingChallengeErr = errors.New("no pending OTP challenge")
	NoRefreshTokenErr     = errors.New("no refresh token available")
)
