package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/dextersy/label-dashboard/internal/models"
)

// Retention for login attempt rows before the cleanup task prunes them
const attemptRetention = 30 * 24 * time.Hour

// LoginAttemptRepository defines the interface for login attempt storage
type LoginAttemptRepository interface {
	RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error
	GetRecentAttempts(ctx context.Context, userID string, limit int) ([]*models.LoginAttempt, error)
}

// LockoutConfig holds configuration for login lockout behavior
type LockoutConfig struct {
	FailureThreshold int           // consecutive failures that trigger a lock
	LockWindow       time.Duration // trailing window the failures must fall in
}

// LockoutService decides whether an account is temporarily locked based on
// its recent login attempt history.
type LockoutService struct {
	repo   LoginAttemptRepository
	config LockoutConfig
	logger *slog.Logger
}

// NewLockoutService creates a new LockoutService
func NewLockoutService(repo LoginAttemptRepository, config LockoutConfig, logger *slog.Logger) *LockoutService {
	return &LockoutService{
		repo:   repo,
		config: config,
		logger: logger,
	}
}

// IsLocked reports whether the user is currently locked out. It inspects the
// N most recent attempts (N = failure threshold): a user with fewer than N
// recorded attempts is never locked; otherwise the account is locked when all
// N slots hold failures newer than the trailing lock window.
//
// Query errors are swallowed and treated as "not locked" so an infrastructure
// fault cannot lock out every legitimate login. The fault is still logged.
func (s *LockoutService) IsLocked(ctx context.Context, userID string) bool {
	attempts, err := s.repo.GetRecentAttempts(ctx, userID, s.config.FailureThreshold)
	if err != nil {
		s.logger.Error("failed to load login attempts, treating account as unlocked",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return false
	}

	if len(attempts) < s.config.FailureThreshold {
		return false
	}

	cutoff := time.Now().Add(-s.config.LockWindow)

	recentFailures := 0
	for _, attempt := range attempts {
		// Only failures strictly newer than the cutoff count toward the lock
		if !attempt.Success && attempt.AttemptTime.After(cutoff) {
			recentFailures++
		}
	}

	return recentFailures >= s.config.FailureThreshold
}

// RetryAfter returns the configured lock window, which doubles as the
// human-facing wait estimate on 423 responses.
func (s *LockoutService) RetryAfter() time.Duration {
	return s.config.LockWindow
}

// RecordAttempt appends the outcome of one login attempt.
func (s *LockoutService) RecordAttempt(ctx context.Context, userID string, success bool, remoteIP, proxyIP, userAgent string) error {
	attempt := &models.LoginAttempt{
		UserID:      userID,
		AttemptTime: time.Now(),
		Success:     success,
		IPAddress:   remoteIP,
		ProxyIP:     proxyIP,
		UserAgent:   userAgent,
		ExpiresAt:   time.Now().Add(attemptRetention),
	}

	return s.repo.RecordAttempt(ctx, attempt)
}
