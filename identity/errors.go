package identity

import "errors"

var (
	TransportErr        = errors.New("identity endpoint unreachable")
	UnexpectedStatusErr = errors.New("unexpected response status")
	MalformedBodyErr    = errors.New("malformed response body")
	MissingTokensErr    = errors.New("response missing token pair")
)
