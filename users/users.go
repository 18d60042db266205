package users

import (
	"fmt"
	"time"

	"unicode"
)

// User is the profile returned by the identity endpoint once a session is
// fully established. The client never sees password material; hashing and
// verification are the server's job.
type User struct {
	ID         string    `json:"id,omitempty"`          // Unique identifier for the user
	Email      string    `json:"email,omitempty"`       // User's email address
	Username   string    `json:"username,omitempty"`    // Unique username
	FirstName  string    `json:"first_name,omitempty"`  // First name of the user
	LastName   string    `json:"last_name,omitempty"`   // Last name of the user
	DateJoined time.Time `json:"date_joined,omitempty"` // Date and time when the user registered
	LastLogin  time.Time `json:"last_login,omitempty"`  // Last time the user logged in
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}

// ValidatePasswordStrength checks if password meets security requirements
// before it is ever sent over the wire:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

// ValidateRegistration runs the pre-submit checks for a registration form.
// The server remains authoritative; this only catches the obvious cases
// before a network round trip.
func ValidateRegistration(username, password, passwordConfirm string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if password != passwordConfirm {
		return fmt.Errorf("passwords do not match")
	}
	return ValidatePasswordStrength(password)
}
