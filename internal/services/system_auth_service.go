package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dextersy/label-dashboard/internal/auth"
	"github.com/dextersy/label-dashboard/internal/models"
	pkgauth "github.com/dextersy/label-dashboard/pkg/auth"
	pkghttp "github.com/dextersy/label-dashboard/pkg/http"
	"github.com/dextersy/label-dashboard/pkg/logger"
)

// SystemUserRepository defines the user storage operations the system auth
// flow needs.
type SystemUserRepository interface {
	GetSystemUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// LockChecker decides whether an account is locked and how long the caller
// should wait.
type LockChecker interface {
	IsLocked(ctx context.Context, userID string) bool
	RetryAfter() time.Duration
	RecordAttempt(ctx context.Context, userID string, success bool, remoteIP, proxyIP, userAgent string) error
}

// AlertNotifier delivers out-of-band lockout alerts to operators.
type AlertNotifier interface {
	NotifyLockout(ctx context.Context, username, remoteIP, proxyIP string)
}

// SystemUserResponse is the user payload returned by login and check-auth.
type SystemUserResponse struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	IsSystemUser bool    `json:"isSystemUser"`
	BrandID      *string `json:"brandId"`
}

// LoginResult carries a minted session token and the authenticated user.
type LoginResult struct {
	Token     string              `json:"token"`
	ExpiresIn int64               `json:"expiresIn"`
	User      *SystemUserResponse `json:"user"`
}

// SystemAuthService implements the system console login flow: credential
// verification, lockout enforcement, and system token lifecycle.
type SystemAuthService struct {
	users       SystemUserRepository
	lockout     LockChecker
	tokens      *auth.TokenManager
	alerts      AlertNotifier
	logger      *slog.Logger
	auditLogger *logger.AuditLogger
}

// NewSystemAuthService creates a new SystemAuthService
func NewSystemAuthService(
	users SystemUserRepository,
	lockout LockChecker,
	tokens *auth.TokenManager,
	alerts AlertNotifier,
	log *slog.Logger,
	auditLogger *logger.AuditLogger,
) *SystemAuthService {
	return &SystemAuthService{
		users:       users,
		lockout:     lockout,
		tokens:      tokens,
		alerts:      alerts,
		logger:      log,
		auditLogger: auditLogger,
	}
}

// Login authenticates a system user by email or username. Every failure that
// stems from the caller's input maps to ErrInvalidCredentials so the response
// cannot reveal whether the account exists; only lockout and malformed input
// get distinct errors.
func (s *SystemAuthService) Login(ctx context.Context, login, password string, addrs pkghttp.ClientAddrs, userAgent string) (*LoginResult, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, models.ErrMissingCredentials
	}

	user, err := s.users.GetSystemUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.auditLogger.LogAuthAttempt(logger.AuditEvent{
				EventType:     "system_login",
				IPAddress:     addrs.RemoteIP,
				ProxyIP:       addrs.ProxyIP,
				UserAgent:     userAgent,
				Success:       false,
				FailureReason: "unknown system user",
			})
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("system user lookup failed", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if user.Status == models.UserStatusDisabled {
		s.auditLogger.LogAuthAttempt(logger.AuditEvent{
			EventType:     "system_login",
			UserID:        user.ID,
			IPAddress:     addrs.RemoteIP,
			ProxyIP:       addrs.ProxyIP,
			UserAgent:     userAgent,
			Success:       false,
			FailureReason: "account disabled",
		})
		return nil, models.ErrAccountDisabled
	}

	// The lookup already filters on the system flag, but a row that drifted
	// out of the invariants (missing hash) must not authenticate.
	if !user.IsValidSystemUser() {
		s.auditLogger.LogAuthAttempt(logger.AuditEvent{
			EventType:     "system_login",
			UserID:        user.ID,
			IPAddress:     addrs.RemoteIP,
			ProxyIP:       addrs.ProxyIP,
			UserAgent:     userAgent,
			Success:       false,
			FailureReason: "invalid system user record",
		})
		return nil, models.ErrInvalidSystemUser
	}

	if s.lockout.IsLocked(ctx, user.ID) {
		s.auditLogger.LogLockout(user.DisplayUsername(), addrs.RemoteIP, addrs.ProxyIP)
		if s.alerts != nil {
			s.alerts.NotifyLockout(ctx, user.DisplayUsername(), addrs.RemoteIP, addrs.ProxyIP)
		}
		return nil, &models.AccountLockedError{RetryAfter: s.lockout.RetryAfter()}
	}

	if err := pkgauth.VerifyPassword(user.PasswordHash, password); err != nil {
		if recErr := s.lockout.RecordAttempt(ctx, user.ID, false, addrs.RemoteIP, addrs.ProxyIP, userAgent); recErr != nil {
			s.logger.Error("failed to record login attempt",
				slog.String("user_id", user.ID),
				slog.Any("error", recErr))
		}
		s.auditLogger.LogAuthAttempt(logger.AuditEvent{
			EventType:     "system_login",
			UserID:        user.ID,
			IPAddress:     addrs.RemoteIP,
			ProxyIP:       addrs.ProxyIP,
			UserAgent:     userAgent,
			Success:       false,
			FailureReason: "password mismatch",
		})
		return nil, models.ErrInvalidCredentials
	}

	// A legacy MD5 credential that just verified is rewritten with the
	// modern scheme, so the old hash disappears on the next read. Login
	// still succeeds if the rewrite fails.
	if pkgauth.IsLegacyHash(user.PasswordHash) {
		if hash, hashErr := pkgauth.HashPassword(password); hashErr != nil {
			s.logger.Error("failed to rehash legacy password",
				slog.String("user_id", user.ID),
				slog.Any("error", hashErr))
		} else if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
			s.logger.Error("failed to store upgraded password hash",
				slog.String("user_id", user.ID),
				slog.Any("error", err))
		}
	}

	if err := s.lockout.RecordAttempt(ctx, user.ID, true, addrs.RemoteIP, addrs.ProxyIP, userAgent); err != nil {
		s.logger.Error("failed to record login attempt",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Error("failed to update last login timestamp",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	token, err := s.tokens.GenerateSystemToken(user)
	if err != nil {
		s.logger.Error("failed to generate system token",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAuthAttempt(logger.AuditEvent{
		EventType: "system_login",
		UserID:    user.ID,
		IPAddress: addrs.RemoteIP,
		ProxyIP:   addrs.ProxyIP,
		UserAgent: userAgent,
		Success:   true,
	})

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.tokens.SystemTokenExpiry().Seconds()),
		User:      newSystemUserResponse(user),
	}, nil
}

// CheckAuth re-validates a presented token's user against the database. A
// token whose user no longer satisfies the system-user invariants is rejected
// even if the signature and expiry are fine.
func (s *SystemAuthService) CheckAuth(ctx context.Context, claims *models.TokenClaims) (*SystemUserResponse, error) {
	user, err := s.loadSystemUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	return newSystemUserResponse(user), nil
}

// Refresh mints a fresh system token for a still-valid session, resetting the
// expiry clock.
func (s *SystemAuthService) Refresh(ctx context.Context, claims *models.TokenClaims) (*LoginResult, error) {
	user, err := s.loadSystemUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateSystemToken(user)
	if err != nil {
		s.logger.Error("failed to generate system token",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.tokens.SystemTokenExpiry().Seconds()),
		User:      newSystemUserResponse(user),
	}, nil
}

func (s *SystemAuthService) loadSystemUser(ctx context.Context, claims *models.TokenClaims) (*models.User, error) {
	if claims == nil || claims.Scope != models.ScopeSystem {
		return nil, models.ErrForbidden
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrForbidden
		}
		s.logger.Error("failed to load user for token validation",
			slog.String("user_id", claims.UserID),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !user.IsValidSystemUser() {
		return nil, models.ErrForbidden
	}

	return user, nil
}

func newSystemUserResponse(user *models.User) *SystemUserResponse {
	return &SystemUserResponse{
		ID:           user.ID,
		Username:     user.DisplayUsername(),
		Email:        user.Email,
		Name:         user.Name,
		IsSystemUser: user.IsSystemUser,
		BrandID:      user.BrandID,
	}
}
