package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserFetcher struct {
	user *models.User
	err  error
}

func (s *stubUserFetcher) GetByID(ctx context.Context, id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func requestWithClaims(claims *models.TokenClaims) *http.Request {
	req := httptest.NewRequest("GET", "/system/check-auth", nil)
	if claims == nil {
		return req
	}
	return req.WithContext(context.WithValue(req.Context(), UserContextKey, claims))
}

func systemClaims() *models.TokenClaims {
	return &models.TokenClaims{
		UserID:       "user-1",
		Email:        "admin@example.com",
		IsSystemUser: true,
		Scope:        models.ScopeSystem,
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour, 24*time.Hour)
	tokenString, err := tm.GenerateSystemToken(systemUser())
	require.NoError(t, err)

	var captured *models.TokenClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/system/check-auth", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()

	AuthMiddleware(tm)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user-1", captured.UserID)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour, 24*time.Hour)
	next, called := okHandler()

	req := httptest.NewRequest("GET", "/system/check-auth", nil)
	w := httptest.NewRecorder()

	AuthMiddleware(tm)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *called)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour, 24*time.Hour)
	next, called := okHandler()

	req := httptest.NewRequest("GET", "/system/check-auth", nil)
	req.Header.Set("Authorization", "Token abcdef")
	w := httptest.NewRecorder()

	AuthMiddleware(tm)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *called)
}

func TestRequireSystemUser_Passes(t *testing.T) {
	fetcher := &stubUserFetcher{user: systemUser()}
	next, called := okHandler()
	w := httptest.NewRecorder()

	RequireSystemUser(fetcher)(next).ServeHTTP(w, requestWithClaims(systemClaims()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *called)
}

func TestRequireSystemUser_TenantScopeForbidden(t *testing.T) {
	brandID := "brand-1"
	claims := &models.TokenClaims{UserID: "user-2", BrandID: &brandID, Scope: models.ScopeTenant}

	fetcher := &stubUserFetcher{user: systemUser()}
	next, called := okHandler()
	w := httptest.NewRecorder()

	RequireSystemUser(fetcher)(next).ServeHTTP(w, requestWithClaims(claims))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, *called)
}

func TestRequireSystemUser_DemotedRecordForbidden(t *testing.T) {
	// Token still claims system scope but the stored record lost the flag
	demoted := systemUser()
	demoted.IsSystemUser = false

	fetcher := &stubUserFetcher{user: demoted}
	next, called := okHandler()
	w := httptest.NewRecorder()

	RequireSystemUser(fetcher)(next).ServeHTTP(w, requestWithClaims(systemClaims()))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, *called)
}

func TestRequireSystemUser_DeletedRecordForbidden(t *testing.T) {
	fetcher := &stubUserFetcher{err: models.ErrNotFound}
	next, called := okHandler()
	w := httptest.NewRecorder()

	RequireSystemUser(fetcher)(next).ServeHTTP(w, requestWithClaims(systemClaims()))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, *called)
}

func requestWithBrandRoute(claims *models.TokenClaims, brandID string) *http.Request {
	req := requestWithClaims(claims)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("brandID", brandID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestRequireBrandAccess_SystemScopePasses(t *testing.T) {
	next, called := okHandler()
	w := httptest.NewRecorder()

	RequireBrandAccess()(next).ServeHTTP(w, requestWithBrandRoute(systemClaims(), "brand-1"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *called)
}

func TestRequireBrandAccess_OwnBrandPasses(t *testing.T) {
	brandID := "brand-1"
	claims := &models.TokenClaims{UserID: "user-2", BrandID: &brandID, Scope: models.ScopeTenant}

	next, called := okHandler()
	w := httptest.NewRecorder()

	RequireBrandAccess()(next).ServeHTTP(w, requestWithBrandRoute(claims, "brand-1"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *called)
}

func TestRequireBrandAccess_OtherBrandForbidden(t *testing.T) {
	brandID := "brand-1"
	claims := &models.TokenClaims{UserID: "user-2", BrandID: &brandID, Scope: models.ScopeTenant}

	next, called := okHandler()
	w := httptest.NewRecorder()

	RequireBrandAccess()(next).ServeHTTP(w, requestWithBrandRoute(claims, "brand-2"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, *called)
}

func TestRequireBrandAccess_NoBrandClaimForbidden(t *testing.T) {
	claims := &models.TokenClaims{UserID: "user-2", Scope: models.ScopeTenant}

	next, called := okHandler()
	w := httptest.NewRecorder()

	RequireBrandAccess()(next).ServeHTTP(w, requestWithBrandRoute(claims, "brand-1"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, *called)
}

func TestRequireAdmin_SystemScopeBypasses(t *testing.T) {
	// No fetch should happen for a system caller
	fetcher := &stubUserFetcher{err: models.ErrInternalServer}
	next, called := okHandler()
	w := httptest.NewRecorder()

	RequireAdmin(fetcher)(next).ServeHTTP(w, requestWithClaims(systemClaims()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *called)
}

func TestRequireAdmin_NonAdminForbidden(t *testing.T) {
	brandID := "brand-1"
	claims := &models.TokenClaims{UserID: "user-2", BrandID: &brandID, Scope: models.ScopeTenant}

	fetcher := &stubUserFetcher{user: &models.User{ID: "user-2", BrandID: &brandID}}
	next, called := okHandler()
	w := httptest.NewRecorder()

	RequireAdmin(fetcher)(next).ServeHTTP(w, requestWithClaims(claims))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, *called)
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	brandID := "brand-1"
	claims := &models.TokenClaims{UserID: "user-2", BrandID: &brandID, Scope: models.ScopeTenant}

	fetcher := &stubUserFetcher{user: &models.User{ID: "user-2", BrandID: &brandID, IsAdmin: true}}
	next, called := okHandler()
	w := httptest.NewRecorder()

	RequireAdmin(fetcher)(next).ServeHTTP(w, requestWithClaims(claims))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *called)
}
