package services

import (
	"context"
	"time"

	"github.com/dextersy/label-dashboard/internal/models"
)

// MockLoginAttemptRepository is a mock implementation of LoginAttemptRepository
type MockLoginAttemptRepository struct {
	RecordAttemptFunc     func(ctx context.Context, attempt *models.LoginAttempt) error
	GetRecentAttemptsFunc func(ctx context.Context, userID string, limit int) ([]*models.LoginAttempt, error)
}

func (m *MockLoginAttemptRepository) RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error {
	if m.RecordAttemptFunc != nil {
		return m.RecordAttemptFunc(ctx, attempt)
	}
	return nil
}

func (m *MockLoginAttemptRepository) GetRecentAttempts(ctx context.Context, userID string, limit int) ([]*models.LoginAttempt, error) {
	if m.GetRecentAttemptsFunc != nil {
		return m.GetRecentAttemptsFunc(ctx, userID, limit)
	}
	return nil, nil
}

// MockSystemUserRepository is a mock implementation of SystemUserRepository
type MockSystemUserRepository struct {
	GetSystemUserByLoginFunc func(ctx context.Context, login string) (*models.User, error)
	GetByIDFunc              func(ctx context.Context, id string) (*models.User, error)
	UpdateLastLoginFunc      func(ctx context.Context, id string, at time.Time) error
	UpdatePasswordFunc       func(ctx context.Context, id, passwordHash string) error
}

func (m *MockSystemUserRepository) GetSystemUserByLogin(ctx context.Context, login string) (*models.User, error) {
	if m.GetSystemUserByLoginFunc != nil {
		return m.GetSystemUserByLoginFunc(ctx, login)
	}
	return nil, models.ErrNotFound
}

func (m *MockSystemUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockSystemUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id, at)
	}
	return nil
}

func (m *MockSystemUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

// MockLockChecker is a mock implementation of LockChecker
type MockLockChecker struct {
	IsLockedFunc      func(ctx context.Context, userID string) bool
	RetryAfterFunc    func() time.Duration
	RecordAttemptFunc func(ctx context.Context, userID string, success bool, remoteIP, proxyIP, userAgent string) error
}

func (m *MockLockChecker) IsLocked(ctx context.Context, userID string) bool {
	if m.IsLockedFunc != nil {
		return m.IsLockedFunc(ctx, userID)
	}
	return false
}

func (m *MockLockChecker) RetryAfter() time.Duration {
	if m.RetryAfterFunc != nil {
		return m.RetryAfterFunc()
	}
	return 120 * time.Second
}

func (m *MockLockChecker) RecordAttempt(ctx context.Context, userID string, success bool, remoteIP, proxyIP, userAgent string) error {
	if m.RecordAttemptFunc != nil {
		return m.RecordAttemptFunc(ctx, userID, success, remoteIP, proxyIP, userAgent)
	}
	return nil
}

// MockAlertNotifier is a mock implementation of AlertNotifier
type MockAlertNotifier struct {
	NotifyLockoutFunc func(ctx context.Context, username, remoteIP, proxyIP string)
}

func (m *MockAlertNotifier) NotifyLockout(ctx context.Context, username, remoteIP, proxyIP string) {
	if m.NotifyLockoutFunc != nil {
		m.NotifyLockoutFunc(ctx, username, remoteIP, proxyIP)
	}
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	GetByIDFunc          func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc       func(ctx context.Context, email string) (*models.User, error)
	GetByInviteTokenFunc func(ctx context.Context, token string) (*models.User, error)
	GetByResetTokenFunc  func(ctx context.Context, token string) (*models.User, error)
	ListByBrandFunc      func(ctx context.Context, brandID string, limit, offset int) ([]*models.User, error)
	CreateFunc           func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc           func(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdatePasswordFunc   func(ctx context.Context, id, passwordHash string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByInviteToken(ctx context.Context, token string) (*models.User, error) {
	if m.GetByInviteTokenFunc != nil {
		return m.GetByInviteTokenFunc(ctx, token)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	if m.GetByResetTokenFunc != nil {
		return m.GetByResetTokenFunc(ctx, token)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) ListByBrand(ctx context.Context, brandID string, limit, offset int) ([]*models.User, error) {
	if m.ListByBrandFunc != nil {
		return m.ListByBrandFunc(ctx, brandID, limit, offset)
	}
	return nil, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return user, nil
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return user, nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

// MockBrandRepository is a mock implementation of BrandRepository
type MockBrandRepository struct {
	GetByIDFunc            func(ctx context.Context, id string) (*models.Brand, error)
	GetByDomainFunc        func(ctx context.Context, domain string) (*models.Brand, error)
	SetCustomDomainFunc    func(ctx context.Context, id, domain string) (*models.Brand, error)
	MarkDomainVerifiedFunc func(ctx context.Context, id string, at time.Time) (*models.Brand, error)
}

func (m *MockBrandRepository) GetByID(ctx context.Context, id string) (*models.Brand, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockBrandRepository) GetByDomain(ctx context.Context, domain string) (*models.Brand, error) {
	if m.GetByDomainFunc != nil {
		return m.GetByDomainFunc(ctx, domain)
	}
	return nil, models.ErrNotFound
}

func (m *MockBrandRepository) SetCustomDomain(ctx context.Context, id, domain string) (*models.Brand, error) {
	if m.SetCustomDomainFunc != nil {
		return m.SetCustomDomainFunc(ctx, id, domain)
	}
	return nil, models.ErrNotFound
}

func (m *MockBrandRepository) MarkDomainVerified(ctx context.Context, id string, at time.Time) (*models.Brand, error) {
	if m.MarkDomainVerifiedFunc != nil {
		return m.MarkDomainVerifiedFunc(ctx, id, at)
	}
	return nil, models.ErrNotFound
}

// MockEmailSender is a mock implementation of EmailSender
type MockEmailSender struct {
	SendInviteEmailFunc        func(ctx context.Context, brandID *string, recipient, name, token string) error
	SendPasswordResetEmailFunc func(ctx context.Context, brandID *string, recipient, token string) error
}

func (m *MockEmailSender) SendInviteEmail(ctx context.Context, brandID *string, recipient, name, token string) error {
	if m.SendInviteEmailFunc != nil {
		return m.SendInviteEmailFunc(ctx, brandID, recipient, name, token)
	}
	return nil
}

func (m *MockEmailSender) SendPasswordResetEmail(ctx context.Context, brandID *string, recipient, token string) error {
	if m.SendPasswordResetEmailFunc != nil {
		return m.SendPasswordResetEmailFunc(ctx, brandID, recipient, token)
	}
	return nil
}

// MockCommandRunner is a mock implementation of remote.CommandRunner
type MockCommandRunner struct {
	RunFunc func(ctx context.Context, command string) (string, error)
}

func (m *MockCommandRunner) Run(ctx context.Context, command string) (string, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, command)
	}
	return "", nil
}
