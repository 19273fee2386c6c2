package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Authentication flow errors
	ErrMissingCredentials   = errors.New("missing credentials")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidSystemUser    = errors.New("invalid system user configuration")
	ErrAccountDisabled      = errors.New("account is disabled")

	// Domain verification errors
	ErrDomainNotPointed = errors.New("domain does not resolve to the expected host")
	ErrInvalidDomain    = errors.New("invalid domain name")
)

// AccountLockedError is returned when a user is temporarily locked out after
// repeated failed login attempts. RetryAfter is a human-facing estimate derived
// from the configured lock window.
type AccountLockedError struct {
	RetryAfter time.Duration
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account is temporarily locked, retry after %s", e.RetryAfter)
}

// RetryAfterMinutes returns the wait estimate in whole minutes, rounded up.
func (e *AccountLockedError) RetryAfterMinutes() int {
	mins := int(e.RetryAfter / time.Minute)
	if e.RetryAfter%time.Minute != 0 {
		mins++
	}
	return mins
}
