package models

import "time"

// Email log statuses
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// Email kinds
const (
	EmailKindInvite        = "invite"
	EmailKindPasswordReset = "password_reset"
	EmailKindLockoutAlert  = "lockout_alert"
)

// EmailLog records one outbound email. Every send through the email service
// appends a row, successful or not.
type EmailLog struct {
	ID        string
	BrandID   *string // NULL for system-level mail such as lockout alerts
	Recipient string
	Subject   string
	Kind      string
	Status    string
	Error     *string
	SentAt    time.Time
}
