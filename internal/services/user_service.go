package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dextersy/label-dashboard/internal/models"
	pkgauth "github.com/dextersy/label-dashboard/pkg/auth"
	"github.com/dextersy/label-dashboard/pkg/logger"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByInviteToken(ctx context.Context, token string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	ListByBrand(ctx context.Context, brandID string, limit, offset int) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// EmailSender delivers account lifecycle emails.
type EmailSender interface {
	SendInviteEmail(ctx context.Context, brandID *string, recipient, name, token string) error
	SendPasswordResetEmail(ctx context.Context, brandID *string, recipient, token string) error
}

// UserServiceConfig holds token lifetimes for the account lifecycle flows
type UserServiceConfig struct {
	InviteTokenExpiry time.Duration
	ResetTokenExpiry  time.Duration
}

// UserService handles user account lifecycle: invitations, profile setup and
// password management.
type UserService struct {
	repo        UserRepository
	email       EmailSender
	config      UserServiceConfig
	logger      *slog.Logger
	auditLogger *logger.AuditLogger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, email EmailSender, config UserServiceConfig, log *slog.Logger, auditLogger *logger.AuditLogger) *UserService {
	return &UserService{
		repo:        repo,
		email:       email,
		config:      config,
		logger:      log,
		auditLogger: auditLogger,
	}
}

// InviteUserRequest carries the fields for inviting a new user
type InviteUserRequest struct {
	Email   string  `json:"email" validate:"required,email"`
	Name    string  `json:"name" validate:"required,min=1,max=100"`
	BrandID *string `json:"brandId"`
	IsAdmin bool    `json:"isAdmin"`
}

// InviteUser creates an invited user record and emails a setup link. The
// invite token is single use and expires after the configured lifetime.
func (s *UserService) InviteUser(ctx context.Context, req InviteUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite token: %w", err)
	}
	expiresAt := time.Now().Add(s.config.InviteTokenExpiry)

	user := &models.User{
		Email:           email,
		Name:            req.Name,
		IsAdmin:         req.IsAdmin,
		BrandID:         req.BrandID,
		Status:          models.UserStatusInvited,
		InviteToken:     &token,
		InviteExpiresAt: &expiresAt,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user = created

	// A failed email does not roll the account back; the invite can be
	// re-sent once delivery recovers.
	if err := s.email.SendInviteEmail(ctx, req.BrandID, email, req.Name, token); err != nil {
		s.logger.Error("failed to send invite email",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	s.auditLogger.LogAccountAction("user_invited", user.ID, "", map[string]string{
		"email": logger.SanitizedEmail(email),
	})

	return user, nil
}

// SetupProfileRequest carries the fields for completing an invited account
type SetupProfileRequest struct {
	Token    string  `json:"token" validate:"required"`
	Name     string  `json:"name" validate:"required,min=1,max=100"`
	Username *string `json:"username" validate:"omitempty,min=3,max=50,alphanum"`
	Password string  `json:"password" validate:"required"`
}

// SetupProfile completes an invited account: sets name, optional username and
// the first password, and activates the user.
func (s *UserService) SetupProfile(ctx context.Context, req SetupProfileRequest) (*models.User, error) {
	user, err := s.repo.GetByInviteToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, err
	}

	if user.InviteExpiresAt == nil || time.Now().After(*user.InviteExpiresAt) {
		return nil, models.ErrUnauthorized
	}
	if user.Status != models.UserStatusInvited {
		return nil, models.ErrConflict
	}

	if err := pkgauth.ValidatePassword(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrBadRequest, err.Error())
	}

	hash, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.Name = req.Name
	user.Username = req.Username
	user.Status = models.UserStatusActive
	user.InviteToken = nil
	user.InviteExpiresAt = nil

	updated, err := s.repo.Update(ctx, user.ID, user)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePassword(ctx, updated.ID, hash); err != nil {
		return nil, err
	}

	s.auditLogger.LogAccountAction("profile_setup_completed", updated.ID, "", nil)

	return updated, nil
}

// ChangePassword verifies the current password before storing the new one.
// New passwords are always stored with the modern hash scheme, so a change is
// also the migration path off a legacy hash.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := pkgauth.VerifyPassword(user.PasswordHash, currentPassword); err != nil {
		return models.ErrInvalidCredentials
	}

	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %s", models.ErrBadRequest, err.Error())
	}

	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.auditLogger.LogAccountAction("password_changed", userID, "", nil)

	return nil
}

// ForgotPassword issues a reset token when the email belongs to an account.
// It always reports success so the endpoint cannot confirm which addresses
// are registered.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		s.logger.Error("failed to look up user for password reset", slog.Any("error", err))
		return nil
	}

	if user.Status != models.UserStatusActive {
		return nil
	}

	token, err := generateToken()
	if err != nil {
		s.logger.Error("failed to generate reset token", slog.Any("error", err))
		return nil
	}
	expiresAt := time.Now().Add(s.config.ResetTokenExpiry)

	user.ResetToken = &token
	user.ResetExpiresAt = &expiresAt

	if _, err := s.repo.Update(ctx, user.ID, user); err != nil {
		s.logger.Error("failed to store reset token",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil
	}

	if err := s.email.SendPasswordResetEmail(ctx, user.BrandID, email, token); err != nil {
		s.logger.Error("failed to send password reset email",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	s.auditLogger.LogAccountAction("password_reset_requested", user.ID, "", nil)

	return nil
}

// ResetPassword consumes a reset token and stores the new password.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.repo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrUnauthorized
		}
		return err
	}

	if user.ResetExpiresAt == nil || time.Now().After(*user.ResetExpiresAt) {
		return models.ErrUnauthorized
	}

	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %s", models.ErrBadRequest, err.Error())
	}

	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// UpdatePassword clears both invite and reset tokens in one statement
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.auditLogger.LogAccountAction("password_reset_completed", user.ID, "", nil)

	return nil
}

// GetUser fetches one user by id
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUsers returns the users attached to a brand
func (s *UserService) ListUsers(ctx context.Context, brandID string, limit, offset int) ([]*models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByBrand(ctx, brandID, limit, offset)
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
