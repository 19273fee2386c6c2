package models

import (
	"time"
)

// User statuses
const (
	UserStatusInvited  = "invited"
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

type User struct {
	ID           string
	Email        string
	Username     *string // Optional login alias; unique when set
	PasswordHash string
	Name         string
	IsAdmin      bool
	IsSystemUser bool
	BrandID      *string // NULL for system users, set for tenant users
	Status       string  // "invited", "active", "disabled"

	InviteToken     *string
	InviteExpiresAt *time.Time
	ResetToken      *string
	ResetExpiresAt  *time.Time

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsValidSystemUser reports whether the record satisfies the system-user
// invariants: flag set, no tenant brand attached, and the fields required to
// mint a token are present.
func (u *User) IsValidSystemUser() bool {
	if !u.IsSystemUser || u.BrandID != nil {
		return false
	}
	if u.Email == "" || u.PasswordHash == "" {
		return false
	}
	return u.Status == UserStatusActive
}

// DisplayUsername returns the username when set, falling back to the email.
func (u *User) DisplayUsername() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return u.Email
}
