package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dextersy/label-dashboard/internal/auth"
	"github.com/dextersy/label-dashboard/internal/models"
	pkgauth "github.com/dextersy/label-dashboard/pkg/auth"
	pkghttp "github.com/dextersy/label-dashboard/pkg/http"
	"github.com/dextersy/label-dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-32-characters-long!!"

var testAddrs = pkghttp.ClientAddrs{RemoteIP: "203.0.113.9", ProxyIP: "198.51.100.1"}

func activeSystemUser() *models.User {
	username := "sysadmin"
	return &models.User{
		ID:           "user-1",
		Email:        "admin@example.com",
		Username:     &username,
		PasswordHash: pkgauth.LegacyHash("Sup3rSecret!"),
		Name:         "System Admin",
		IsSystemUser: true,
		BrandID:      nil,
		Status:       models.UserStatusActive,
	}
}

func newSystemAuthService(users SystemUserRepository, lockout LockChecker, alerts AlertNotifier) *SystemAuthService {
	log := testLogger()
	return NewSystemAuthService(
		users,
		lockout,
		auth.NewTokenManager(testJWTSecret, 1*time.Hour, 24*time.Hour),
		alerts,
		log,
		logger.NewAuditLogger(log),
	)
}

func TestLogin_Success(t *testing.T) {
	user := activeSystemUser()

	var recordedSuccess *bool
	lastLoginUpdated := false

	users := &MockSystemUserRepository{
		GetSystemUserByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
			assert.Equal(t, "sysadmin", login)
			return user, nil
		},
		UpdateLastLoginFunc: func(ctx context.Context, id string, at time.Time) error {
			lastLoginUpdated = true
			return nil
		},
	}
	lockout := &MockLockChecker{
		RecordAttemptFunc: func(ctx context.Context, userID string, success bool, remoteIP, proxyIP, userAgent string) error {
			recordedSuccess = &success
			assert.Equal(t, "203.0.113.9", remoteIP)
			assert.Equal(t, "198.51.100.1", proxyIP)
			return nil
		},
	}

	svc := newSystemAuthService(users, lockout, &MockAlertNotifier{})

	result, err := svc.Login(context.Background(), "sysadmin", "Sup3rSecret!", testAddrs, "go-test")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, int64(3600), result.ExpiresIn)
	assert.Equal(t, "user-1", result.User.ID)
	assert.Equal(t, "sysadmin", result.User.Username)
	assert.True(t, result.User.IsSystemUser)
	assert.Nil(t, result.User.BrandID)

	require.NotNil(t, recordedSuccess)
	assert.True(t, *recordedSuccess)
	assert.True(t, lastLoginUpdated)

	// The minted token must be system scoped with a null brand claim
	tm := auth.NewTokenManager(testJWTSecret, 1*time.Hour, 24*time.Hour)
	claims, err := tm.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, models.ScopeSystem, claims.Scope)
	assert.Equal(t, models.IssuerSystemAuth, claims.Issuer)
	assert.Nil(t, claims.BrandID)
}

func TestLogin_BcryptPassword(t *testing.T) {
	user := activeSystemUser()
	hash, err := pkgauth.HashPassword("Sup3rSecret!")
	require.NoError(t, err)
	user.PasswordHash = hash

	users := &MockSystemUserRepository{
		GetSystemUserByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
			return user, nil
		},
	}

	svc := newSystemAuthService(users, &MockLockChecker{}, &MockAlertNotifier{})

	result, err := svc.Login(context.Background(), "sysadmin", "Sup3rSecret!", testAddrs, "go-test")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestLogin_LegacyHashUpgraded(t *testing.T) {
	user := activeSystemUser()

	var storedHash string
	users := &MockSystemUserRepository{
		GetSystemUserByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
			return user, nil
		},
		UpdatePasswordFunc: func(ctx context.Context, id, passwordHash string) error {
			assert.Equal(t, "user-1", id)
			storedHash = passwordHash
			return nil
		},
	}

	svc := newSystemAuthService(users, &MockLockChecker{}, &MockAlertNotifier{})

	_, err := svc.Login(context.Background(), "sysadmin", "Sup3rSecret!", testAddrs, "go-test")
	require.NoError(t, err)

	// The stored credential is rewritten with the modern scheme and still
	// verifies against the same password
	require.NotEmpty(t, storedHash)
	assert.False(t, pkgauth.IsLegacyHash(storedHash))
	assert.NoError(t, pkgauth.VerifyPassword(storedHash, "Sup3rSecret!"))
}

func TestLogin_BcryptHashLeftAlone(t *testing.T) {
	user := activeSystemUser()
	hash, err := pkgauth.HashPassword("Sup3rSecret!")
	require.NoError(t, err)
	user.PasswordHash = hash

	rewritten := false
	users := &MockSystemUserRepository{
		GetSystemUserByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
			return user, nil
		},
		UpdatePasswordFunc: func(ctx context.Context, id, passwordHash string) error {
			rewritten = true
			return nil
		},
	}

	svc := newSystemAuthService(users, &MockLockChecker{}, &MockAlertNotifier{})

	_, err = svc.Login(context.Background(), "sysadmin", "Sup3rSecret!", testAddrs, "go-test")
	require.NoError(t, err)
	assert.False(t, rewritten)
}

func TestLogin_MissingCredentials(t *testing.T) {
	svc := newSystemAuthService(&MockSystemUserRepository{}, &MockLockChecker{}, &MockAlertNotifier{})

	_, err := svc.Login(context.Background(), "", "pw", testAddrs, "go-test")
	assert.ErrorIs(t, err, models.ErrMissingCredentials)

	_, err = svc.Login(context.Background(), "sysadmin", "", testAddrs, "go-test")
	assert.ErrorIs(t, err, models.ErrMissingCredentials)

	_, err = svc.Login(context.Background(), "   ", "pw", testAddrs, "go-test")
	assert.ErrorIs(t, err, models.ErrMissingCredentials)
}

func TestLogin_UnknownUserAndWrongPasswordMatch(t *testing.T) {
	// Both failure modes must surface the same error so responses cannot
	// reveal which accounts exist.
	user := activeSystemUser()

	unknown := &MockSystemUserRepository{
		GetSystemUserByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}
	known := &MockSystemUserRepository{
		GetSystemUserByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
			return user, nil
		},
	}

	_, errUnknown := newSystemAuthService(unknown, &MockLockChecker{}, &MockAlertNotifier{}).
		Login(context.Background(), "ghost", "whatever", testAddrs, "go-test")
	_, errWrongPw := newSystemAuthService(known, &MockLockChecker{}, &MockAlertNotifier{}).
		Login(context.Background(), "sysadmin", "wrong-password", testAddrs, "go-test")

	assert.ErrorIs(t, errUnknown, models.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, models.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLogin_WrongPasswordRecordsFailure(t *testing.T) {
	user := activeSystemUser()

	var recordedSuccess *bool
	users := &MockSystemUserRepository{
		GetSystemUserByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
			return user, nil
		},
	}
	lockout := &MockLockChecker{
		RecordAttemptFunc: func(ctx context.Context, userID string, success bool, remoteIP, proxyIP, userAgent string) error {
			recordedSuccess = &success
			return nil
		},
	}

	svc := newSystemAuthService(users, lockout, &MockAlertNotifier{})

	_, err := svc.Login(context.Background(), "sysadmin", "wrong-password", testAddrs, "go-test")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	require.NotNil(t, recordedSuccess)
	assert.False(t, *recordedSuccess)
}

func TestLogin_DisabledSystemUser(t *testing.T) {
	user := activeSystemUser()
	user.Status = models.UserStatusDisabled

	users := &MockSystemUserRepository{
		GetSystemUserByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
			return user, nil
		},
	}

	svc := newSystemAuthService(users, &MockLockChecker{}, &MockAlertNotifier{})

	_, err := svc.Login(context.Background(), "sysadmin", "Sup3rSecret!", testAddrs, "go-test")
	assert.ErrorIs(t, err, models.ErrAccountDisabled)
}

func TestLogin_TenantRecordRejected(t *testing.T) {
	// Belt and braces: even if a brand-bound row slips past the lookup filter
	// it must not authenticate on the system endpoint.
	user := activeSystemUser()
	brandID := "brand-1"
	user.BrandID = &brandID

	users := &MockSystemUserRepository{
		GetSystemUserByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
			return user, nil
		},
	}

	svc := newSystemAuthService(users, &MockLockChecker{}, &MockAlertNotifier{})

	_, err := svc.Login(context.Background(), "sysadmin", "Sup3rSecret!", testAddrs, "go-test")
	assert.ErrorIs(t, err, models.ErrInvalidSystemUser)
}

func TestLogin_LockedAccount(t *testing.T) {
	user := activeSystemUser()

	attemptRecorded := false
	alertSent := false

	users := &MockSystemUserRepository{
		GetSystemUserByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
			return user, nil
		},
	}
	lockout := &MockLockChecker{
		IsLockedFunc: func(ctx context.Context, userID string) bool { return true },
		RecordAttemptFunc: func(ctx context.Context, userID string, success bool, remoteIP, proxyIP, userAgent string) error {
			attemptRecorded = true
			return nil
		},
	}
	alerts := &MockAlertNotifier{
		NotifyLockoutFunc: func(ctx context.Context, username, remoteIP, proxyIP string) {
			alertSent = true
			assert.Equal(t, "sysadmin", username)
			assert.Equal(t, "203.0.113.9", remoteIP)
			assert.Equal(t, "198.51.100.1", proxyIP)
		},
	}

	svc := newSystemAuthService(users, lockout, alerts)

	// Even the correct password is rejected while the lock holds
	_, err := svc.Login(context.Background(), "sysadmin", "Sup3rSecret!", testAddrs, "go-test")

	var lockErr *models.AccountLockedError
	require.ErrorAs(t, err, &lockErr)
	assert.Equal(t, 120*time.Second, lockErr.RetryAfter)
	assert.Equal(t, 2, lockErr.RetryAfterMinutes())
	assert.True(t, alertSent)
	assert.False(t, attemptRecorded, "locked logins must not grow the attempt history")
}

func TestLogin_LookupInfrastructureError(t *testing.T) {
	users := &MockSystemUserRepository{
		GetSystemUserByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
			return nil, errors.New("connection refused")
		},
	}

	svc := newSystemAuthService(users, &MockLockChecker{}, &MockAlertNotifier{})

	_, err := svc.Login(context.Background(), "sysadmin", "Sup3rSecret!", testAddrs, "go-test")
	assert.ErrorIs(t, err, models.ErrInternalServer)
}

func systemClaims(userID string) *models.TokenClaims {
	return &models.TokenClaims{
		UserID: userID,
		Scope:  models.ScopeSystem,
	}
}

func TestCheckAuth_Valid(t *testing.T) {
	user := activeSystemUser()
	users := &MockSystemUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			assert.Equal(t, "user-1", id)
			return user, nil
		},
	}

	svc := newSystemAuthService(users, &MockLockChecker{}, &MockAlertNotifier{})

	resp, err := svc.CheckAuth(context.Background(), systemClaims("user-1"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.ID)
	assert.True(t, resp.IsSystemUser)
}

func TestCheckAuth_RejectsTenantScope(t *testing.T) {
	svc := newSystemAuthService(&MockSystemUserRepository{}, &MockLockChecker{}, &MockAlertNotifier{})

	claims := systemClaims("user-1")
	claims.Scope = models.ScopeTenant

	_, err := svc.CheckAuth(context.Background(), claims)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestCheckAuth_UserNoLongerSystem(t *testing.T) {
	user := activeSystemUser()
	brandID := "brand-1"
	user.BrandID = &brandID

	users := &MockSystemUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
	}

	svc := newSystemAuthService(users, &MockLockChecker{}, &MockAlertNotifier{})

	_, err := svc.CheckAuth(context.Background(), systemClaims("user-1"))
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestCheckAuth_UserDeleted(t *testing.T) {
	users := &MockSystemUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}

	svc := newSystemAuthService(users, &MockLockChecker{}, &MockAlertNotifier{})

	_, err := svc.CheckAuth(context.Background(), systemClaims("user-1"))
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestRefresh_MintsFreshToken(t *testing.T) {
	user := activeSystemUser()
	users := &MockSystemUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
	}

	svc := newSystemAuthService(users, &MockLockChecker{}, &MockAlertNotifier{})

	result, err := svc.Refresh(context.Background(), systemClaims("user-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, int64(3600), result.ExpiresIn)

	tm := auth.NewTokenManager(testJWTSecret, 1*time.Hour, 24*time.Hour)
	claims, err := tm.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, models.ScopeSystem, claims.Scope)
	assert.WithinDuration(t, time.Now().Add(1*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestRefresh_RevalidatesStoredUser(t *testing.T) {
	user := activeSystemUser()
	user.IsSystemUser = false

	users := &MockSystemUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
	}

	svc := newSystemAuthService(users, &MockLockChecker{}, &MockAlertNotifier{})

	_, err := svc.Refresh(context.Background(), systemClaims("user-1"))
	assert.ErrorIs(t, err, models.ErrForbidden)
}
