package models

import "time"

// LoginAttempt is one append-only record of an authentication attempt.
// Rows are read newest-first by the lockout checker and pruned by the
// background cleanup task once ExpiresAt passes.
type LoginAttempt struct {
	ID          string
	UserID      string
	AttemptTime time.Time
	Success     bool
	IPAddress   string
	ProxyIP     string
	UserAgent   string
	ExpiresAt   time.Time
}
