package service

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"chorus/internal/models"
)

const (
	minUsernameLen = 2
	maxUsernameLen = 30
	minEmailLen    = 6
	maxEmailLen    = 100
	minPasswordLen = 6
	maxPasswordLen = 100
	maxBioLen      = 500
	maxSearchLen   = 50
	searchLimit    = 50
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < minUsernameLen || n > maxUsernameLen {
		return models.NewValidationError("Username must be between 2 and 30 characters")
	}
	if !usernamePattern.MatchString(username) {
		return models.NewValidationError("Username may only contain letters, digits, '_' and '-'")
	}
	return nil
}

func validateEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if n := len(email); n < minEmailLen || n > maxEmailLen {
		return "", models.NewValidationError("Email must be between 6 and 100 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", models.NewValidationError("Invalid email address")
	}
	return email, nil
}

func validatePassword(password string) error {
	if n := len(password); n < minPasswordLen || n > maxPasswordLen {
		return models.NewValidationError("Password must be between 6 and 100 characters")
	}
	return nil
}
