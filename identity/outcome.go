package identity

import (
	"strings"

	"github.com/jrsteele09/go-auth-client/token"
	"github.com/jrsteele09/go-auth-client/users"
)

// Status tags the result of an identity operation.
type Status string

const (
	// StatusAuthenticated means the operation produced a full credential pair.
	StatusAuthenticated Status = "authenticated"
	// StatusStepUpRequired means an OTP code must be confirmed before the
	// session is established. Not an error.
	StatusStepUpRequired Status = "step_up_required"
	// StatusFailed covers validation and transport failures.
	StatusFailed Status = "failed"
)

// FieldErrors holds field-keyed validation messages returned by the identity
// endpoint on failure.
type FieldErrors map[string][]string

// Detail returns the endpoint's free-form detail message, if any.
func (fe FieldErrors) Detail() string {
	return strings.Join(fe["detail"], " ")
}

// Outcome is the tagged result of an identity operation. Exactly one of the
// payload fields is meaningful for a given Status:
// Credentials/User for StatusAuthenticated, PendingUsername for
// StatusStepUpRequired, FieldErrors/Err for StatusFailed.
type Outcome struct {
	Status          Status
	Credentials     token.Credentials
	User            *users.User
	PendingUsername string
	FieldErrors     FieldErrors
	Err             error
}

func authenticated(creds token.Credentials, user *users.User) Outcome {
	return Outcome{Status: StatusAuthenticated, Credentials: creds, User: user}
}

func stepUpRequired(username string) Outcome {
	return Outcome{Status: StatusStepUpRequired, PendingUsername: username}
}

func failed(fieldErrors FieldErrors, err error) Outcome {
	return Outcome{Status: StatusFailed, FieldErrors: fieldErrors, Err: err}
}
