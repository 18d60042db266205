package users_test

import (
	"testing"

	"github.com/jrsteele09/go-auth-client/users"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "Password123", false},
		{"too short", "Pw1", true},
		{"no uppercase", "password123", true},
		{"no lowercase", "PASSWORD123", true},
		{"no number", "PasswordABC", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := users.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	require.NoError(t, users.ValidateRegistration("john", "Password123", "Password123"))
	require.Error(t, users.ValidateRegistration("", "Password123", "Password123"))
	require.Error(t, users.ValidateRegistration("john", "Password123", "Password124"))
	require.Error(t, users.ValidateRegistration("john", "weak", "weak"))
}

func TestFullName(t *testing.T) {
	u := &users.User{Username: "jdoe", FirstName: "John", LastName: "Doe"}
	require.Equal(t, "John Doe", u.FullName())

	anonymous := &users.User{Username: "jdoe"}
	require.Equal(t, "jdoe", anonymous.FullName())
}
