// Package store provides durable persistence for the session credential pair.
package store

import (
	"github.com/jrsteele09/go-auth-client/token"
)

// Repo persists the credential pair as two independent entries.
//
// Save writes only the fields present in the pair, so a refresh-only access
// token rotation does not clobber the stored refresh token. Load returns the
// zero pair unless both entries are present; a partial pair cannot
// reconstitute a session. Clear removes both entries deterministically.
type Repo interface {
	Save(creds token.Credentials) error
	Load() (token.Credentials, error)
	Clear() error
}
