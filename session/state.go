package session

import (
	"github.com/jrsteele09/go-auth-client/identity"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/jrsteele09/go-auth-client/users"
)

// OtpChallenge records a pending step-up: the username that triggered it is
// replayed on confirmation.
type OtpChallenge struct {
	PendingUsername string
}

// State is the in-memory representation of the current session. It is owned
// exclusively by the Manager and mutated only through identity outcomes or
// explicit logout.
//
// Busy is a best-effort UI hint, not a mutual-exclusion primitive: two
// operations issued concurrently race and the last completing response wins.
type State struct {
	Credentials  token.Credentials
	User         *users.User
	OtpChallenge *OtpChallenge
	AuthErrors   identity.FieldErrors
	Busy         bool
}
