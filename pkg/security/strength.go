package security

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var ErrPasswordCommon = errors.New("password is too common")

var commonPasswords = map[string]struct{}{
	"password":  {},
	"password1": {},
	"12345678":  {},
	"123456789": {},
	"qwertyui":  {},
	"welcome1":  {},
	"iloveyou":  {},
	"admin123":  {},
}

// CheckStrength enforces the minimum length and rejects well-known passwords.
func CheckStrength(password string, minLength int) error {
	if minLength <= 0 {
		minLength = 8
	}
	if utf8.RuneCountInString(password) < minLength {
		return fmt.Errorf("password must be at least %d characters long", minLength)
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be blank")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return ErrPasswordCommon
	}
	return nil
}
