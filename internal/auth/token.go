package auth

import (
	"fmt"
	"time"

	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager handles JWT token generation and validation
type TokenManager struct {
	secret            string
	systemTokenExpiry time.Duration
	tenantTokenExpiry time.Duration
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, systemExpiry, tenantExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:            secret,
		systemTokenExpiry: systemExpiry,
		tenantTokenExpiry: tenantExpiry,
	}
}

// SystemTokenExpiry reports the configured system session lifetime.
func (tm *TokenManager) SystemTokenExpiry() time.Duration {
	return tm.systemTokenExpiry
}

// TenantTokenExpiry reports the configured tenant session lifetime.
func (tm *TokenManager) TenantTokenExpiry() time.Duration {
	return tm.tenantTokenExpiry
}

// GenerateSystemToken mints a system-scoped session token. System tokens
// always carry an explicit null brand claim and the "system-auth" issuer, and
// expire sooner than tenant sessions.
func (tm *TokenManager) GenerateSystemToken(user *models.User) (string, error) {
	now := time.Now()

	claims := &models.TokenClaims{
		UserID:       user.ID,
		Username:     user.DisplayUsername(),
		Email:        user.Email,
		IsSystemUser: true,
		BrandID:      nil,
		Scope:        models.ScopeSystem,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    models.IssuerSystemAuth,
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.systemTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign system token: %w", err)
	}

	return tokenString, nil
}

// GenerateTenantToken mints a brand-scoped session token for a tenant user.
func (tm *TokenManager) GenerateTenantToken(user *models.User) (string, error) {
	if user.BrandID == nil {
		return "", fmt.Errorf("tenant token requires a brand id")
	}

	now := time.Now()

	claims := &models.TokenClaims{
		UserID:       user.ID,
		Username:     user.DisplayUsername(),
		Email:        user.Email,
		IsSystemUser: false,
		BrandID:      user.BrandID,
		Scope:        models.ScopeTenant,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    models.IssuerAuth,
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.tenantTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign tenant token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken verifies a token and returns its claims
func (tm *TokenManager) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, models.ErrUnauthorized
	}

	if claims.Scope == "" {
		return nil, fmt.Errorf("invalid token: missing scope")
	}

	return claims, nil
}
