package identity

import (
	"encoding/json"

	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/users"
)

// Form carries the credential fields submitted by login and registration.
// PasswordConfirm is only used by registration.
type Form struct {
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm,omitempty"`
}

type otpRequest struct {
	Username string `json:"username"`
	OtpCode  string `json:"otp_code"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// tokenResponse is the success body shape shared by the token-issuing
// endpoints. Detail carries the endpoint's free-form message on step-up
// responses ("otp sent").
type tokenResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    *users.User `json:"user,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// parseFieldErrors normalizes a failure body into field-keyed message lists.
// The endpoint answers either {"field": ["msg", ...]} or {"detail": "msg"};
// anything unparseable yields nil and the caller falls back to the transport
// error.
func parseFieldErrors(body []byte) FieldErrors {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return nil
	}

	fieldErrors := make(FieldErrors, len(raw))
	for field, value := range raw {
		switch v := value.(type) {
		case string:
			fieldErrors[field] = []string{v}
		case []any:
			if messages := utils.ToStringSlice(v); len(messages) > 0 {
				fieldErrors[field] = messages
			}
		}
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}
