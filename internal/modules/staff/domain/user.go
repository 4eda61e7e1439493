package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrPasswordTooShort   = fmt.Errorf("new password must be at least %d characters", MinPasswordLength)
	ErrPasswordMismatch   = errors.New("new passwords do not match")
)

const (
	// MinPasswordLength is counted in characters, not bytes.
	MinPasswordLength = 6

	DefaultAdminUsername = "admin"
	DefaultAdminName     = "Administrátor"
	RoleAdmin            = "admin"
)

// User is a staff account. The username is the key of the users file and is not
// repeated inside the record.
type User struct {
	Username     string `json:"-"`
	Name         string `json:"name"`
	PasswordHash string `json:"password"`
	Role         string `json:"role,omitempty"`
}

// DisplayName falls back to the username.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Username
}

// NormalizeUsername trims the login name; usernames are case sensitive.
func NormalizeUsername(raw string) string {
	return strings.TrimSpace(raw)
}

// ValidateNewPassword checks the length rule and, when a confirmation is given, that it matches.
func ValidateNewPassword(password, confirmation string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if confirmation != "" && confirmation != password {
		return ErrPasswordMismatch
	}
	return nil
}
