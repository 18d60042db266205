package token

import "strings"

// Credentials is the access/refresh token pair owned by a session.
// Either field may be empty; a session can only be reconstituted from
// storage when both are present.
type Credentials struct {
	Access  string `json:"access,omitempty"`
	Refresh string `json:"refresh,omitempty"`
}

// AccessToken returns the trimmed access token, or "" if absent.
func (c Credentials) AccessToken() string {
	return strings.TrimSpace(c.Access)
}

// RefreshToken returns the trimmed refresh token, or "" if absent.
func (c Credentials) RefreshToken() string {
	return strings.TrimSpace(c.Refresh)
}

// Complete reports whether both tokens are present.
func (c Credentials) Complete() bool {
	return c.AccessToken() != "" && c.RefreshToken() != ""
}

// Empty reports whether neither token is present.
func (c Credentials) Empty() bool {
	return c.AccessToken() == "" && c.RefreshToken() == ""
}
