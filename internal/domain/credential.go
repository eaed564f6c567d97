package domain

import (
	"errors"
	"net/mail"
	"unicode"
)

// Credential carries a login attempt. It is transient and never persisted.
type Credential struct {
	Email    string
	Password string
}

// Validate checks the credential shape before any store lookup: a well-formed
// email and a password of at least 8 characters containing a letter, a digit
// and a special character.
func (c Credential) Validate() error {
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return errors.New("invalid email address")
	}
	if len(c.Password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range c.Password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasLetter {
		return errors.New("password must contain at least one letter")
	}
	if !hasDigit {
		return errors.New("password must contain at least one number")
	}
	if !hasSpecial {
		return errors.New("password must contain at least one special character")
	}
	return nil
}
