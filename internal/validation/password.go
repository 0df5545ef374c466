// Package validation holds input format rules shared by handlers.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

const (
	minPasswordLength = 12
	maxPasswordLength = 128
	maxEmailLength    = 254
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_]{1,28}[a-zA-Z0-9]$`)

// ValidatePassword enforces length and character-class requirements.
func ValidatePassword(password string) error {
	length := len([]rune(password))
	if length < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if length > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain an uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain a lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain a digit")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain a special character")
	}
	return nil
}

// ValidateUsername checks length and the allowed character set. Usernames
// must start and end with an alphanumeric character.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters, contain only letters, numbers, and underscores, and start and end with a letter or number")
	}
	return nil
}

// ValidateEmail checks RFC 5322 format plus practical length and shape
// constraints mail.ParseAddress alone does not enforce.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLength {
		return fmt.Errorf("email must be at most %d characters", maxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email format is invalid")
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	if domain == "" || strings.HasSuffix(domain, ".") || !strings.Contains(domain, ".") {
		return fmt.Errorf("email format is invalid")
	}
	return nil
}
