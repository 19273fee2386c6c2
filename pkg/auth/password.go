package auth

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost     = 12
	MinPasswordLen = 8
	MaxPasswordLen = 128
)

// PasswordValidationError holds validation error details (internal use only)
type PasswordValidationError struct {
	Errors []string
}

func (e *PasswordValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "password validation failed"
	}
	// Generic message - never expose specific requirements to callers
	return "invalid password"
}

// Common weak passwords to reject
var commonPasswords = map[string]bool{
	"password":    true,
	"12345678":    true,
	"qwerty":      true,
	"abc123":      true,
	"password123": true,
	"123456":      true,
	"admin":       true,
	"letmein":     true,
	"welcome":     true,
	"passw0rd":    true,
	"trustno1":    true,
}

// LegacyHash computes the unsalted MD5 hex digest used by pre-migration
// credentials. New code must never write this hash; it exists so stored
// system-user passwords keep verifying.
func LegacyHash(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// IsLegacyHash reports whether a stored hash uses the pre-migration MD5
// scheme rather than bcrypt.
func IsLegacyHash(storedHash string) bool {
	return storedHash != "" && !strings.HasPrefix(storedHash, "$2")
}

// HashPassword hashes a password with bcrypt. All newly set passwords go
// through here.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// VerifyPassword checks a submitted password against a stored hash. Bcrypt
// hashes are recognized by their "$2" prefix; anything else is treated as a
// legacy MD5 hex digest and compared in constant time. This is the single
// verification entry point so the legacy scheme can be retired without
// touching callers.
func VerifyPassword(storedHash, password string) error {
	if storedHash == "" {
		return fmt.Errorf("no password hash on record")
	}

	if !IsLegacyHash(storedHash) {
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password))
	}

	computed := LegacyHash(password)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(storedHash))) != 1 {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

// ValidatePassword enforces strength requirements for newly set passwords
func ValidatePassword(password string) error {
	errors := make([]string, 0)

	// Check length
	if len(password) < MinPasswordLen {
		errors = append(errors, fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}
	if len(password) > MaxPasswordLen {
		errors = append(errors, fmt.Sprintf("must be at most %d characters", MaxPasswordLen))
	}

	// Check character requirements
	hasUpper := false
	hasLower := false
	hasDigit := false

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		errors = append(errors, "must contain at least one uppercase letter")
	}
	if !hasLower {
		errors = append(errors, "must contain at least one lowercase letter")
	}
	if !hasDigit {
		errors = append(errors, "must contain at least one digit")
	}

	// Check against common passwords (case-insensitive)
	if commonPasswords[strings.ToLower(password)] {
		errors = append(errors, "is too common, please choose a more unique password")
	}

	if len(errors) > 0 {
		return &PasswordValidationError{Errors: errors}
	}

	return nil
}
