package auth

import (
	"testing"
	"time"

	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-characters-long!!"

func systemUser() *models.User {
	username := "sysadmin"
	return &models.User{
		ID:           "user-1",
		Email:        "admin@example.com",
		Username:     &username,
		IsSystemUser: true,
		Status:       models.UserStatusActive,
	}
}

func TestGenerateSystemToken_ClaimShape(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour, 24*time.Hour)

	tokenString, err := tm.GenerateSystemToken(systemUser())
	require.NoError(t, err)

	claims, err := tm.ValidateToken(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "sysadmin", claims.Username)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, claims.IsSystemUser)
	assert.Nil(t, claims.BrandID)
	assert.Equal(t, models.ScopeSystem, claims.Scope)
	assert.Equal(t, models.IssuerSystemAuth, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateSystemToken_ExpiryMatchesConfig(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour, 24*time.Hour)

	tokenString, err := tm.GenerateSystemToken(systemUser())
	require.NoError(t, err)

	claims, err := tm.ValidateToken(tokenString)
	require.NoError(t, err)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 1*time.Hour, lifetime)
}

func TestGenerateSystemToken_UsernameFallsBackToEmail(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour, 24*time.Hour)

	user := systemUser()
	user.Username = nil

	tokenString, err := tm.GenerateSystemToken(user)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Username)
}

func TestGenerateTenantToken_CarriesBrand(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour, 24*time.Hour)

	brandID := "brand-1"
	user := &models.User{
		ID:      "user-2",
		Email:   "member@example.com",
		BrandID: &brandID,
	}

	tokenString, err := tm.GenerateTenantToken(user)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.False(t, claims.IsSystemUser)
	require.NotNil(t, claims.BrandID)
	assert.Equal(t, "brand-1", *claims.BrandID)
	assert.Equal(t, models.ScopeTenant, claims.Scope)
	assert.Equal(t, models.IssuerAuth, claims.Issuer)
}

func TestGenerateTenantToken_RejectsMissingBrand(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour, 24*time.Hour)

	_, err := tm.GenerateTenantToken(&models.User{ID: "user-3", Email: "x@example.com"})
	assert.Error(t, err)
}

func TestValidateToken_RejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour, 24*time.Hour)
	other := NewTokenManager("another-secret-32-characters-ok!", 1*time.Hour, 24*time.Hour)

	tokenString, err := tm.GenerateSystemToken(systemUser())
	require.NoError(t, err)

	_, err = other.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateToken_RejectsExpired(t *testing.T) {
	tm := NewTokenManager(testSecret, -1*time.Minute, 24*time.Hour)

	tokenString, err := tm.GenerateSystemToken(systemUser())
	require.NoError(t, err)

	_, err = tm.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour, 24*time.Hour)

	_, err := tm.ValidateToken("not.a.token")
	assert.Error(t, err)
}
