package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/dextersy/label-dashboard/internal/auth"
	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/dextersy/label-dashboard/internal/services"
	pkghttp "github.com/dextersy/label-dashboard/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithSystemContext adds system-scoped claims to the request context
func WithSystemContext(req *http.Request, userID, email string) *http.Request {
	claims := &models.TokenClaims{
		UserID:       userID,
		Email:        email,
		IsSystemUser: true,
		Scope:        models.ScopeSystem,
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// WithTenantContext adds brand-scoped claims to the request context
func WithTenantContext(req *http.Request, userID, email, brandID string) *http.Request {
	claims := &models.TokenClaims{
		UserID:  userID,
		Email:   email,
		BrandID: &brandID,
		Scope:   models.ScopeTenant,
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// WithChiRouteContext adds chi URL parameters to request context for testing
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockSystemAuthService implements SystemAuthServiceInterface for testing
type MockSystemAuthService struct {
	LoginFunc     func(ctx context.Context, login, password string, addrs pkghttp.ClientAddrs, userAgent string) (*services.LoginResult, error)
	CheckAuthFunc func(ctx context.Context, claims *models.TokenClaims) (*services.SystemUserResponse, error)
	RefreshFunc   func(ctx context.Context, claims *models.TokenClaims) (*services.LoginResult, error)
}

func (m *MockSystemAuthService) Login(ctx context.Context, login, password string, addrs pkghttp.ClientAddrs, userAgent string) (*services.LoginResult, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrInvalidCredentials
	}
	return m.LoginFunc(ctx, login, password, addrs, userAgent)
}

func (m *MockSystemAuthService) CheckAuth(ctx context.Context, claims *models.TokenClaims) (*services.SystemUserResponse, error) {
	if m.CheckAuthFunc == nil {
		return nil, models.ErrForbidden
	}
	return m.CheckAuthFunc(ctx, claims)
}

func (m *MockSystemAuthService) Refresh(ctx context.Context, claims *models.TokenClaims) (*services.LoginResult, error) {
	if m.RefreshFunc == nil {
		return nil, models.ErrForbidden
	}
	return m.RefreshFunc(ctx, claims)
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	InviteUserFunc     func(ctx context.Context, req services.InviteUserRequest) (*models.User, error)
	SetupProfileFunc   func(ctx context.Context, req services.SetupProfileRequest) (*models.User, error)
	ChangePasswordFunc func(ctx context.Context, userID, currentPassword, newPassword string) error
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, token, newPassword string) error
	ListUsersFunc      func(ctx context.Context, brandID string, limit, offset int) ([]*models.User, error)
}

func (m *MockUserService) InviteUser(ctx context.Context, req services.InviteUserRequest) (*models.User, error) {
	if m.InviteUserFunc == nil {
		return nil, models.ErrConflict
	}
	return m.InviteUserFunc(ctx, req)
}

func (m *MockUserService) SetupProfile(ctx context.Context, req services.SetupProfileRequest) (*models.User, error) {
	if m.SetupProfileFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.SetupProfileFunc(ctx, req)
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if m.ChangePasswordFunc == nil {
		return nil
	}
	return m.ChangePasswordFunc(ctx, userID, currentPassword, newPassword)
}

func (m *MockUserService) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc == nil {
		return nil
	}
	return m.ForgotPasswordFunc(ctx, email)
}

func (m *MockUserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc == nil {
		return models.ErrUnauthorized
	}
	return m.ResetPasswordFunc(ctx, token, newPassword)
}

func (m *MockUserService) ListUsers(ctx context.Context, brandID string, limit, offset int) ([]*models.User, error) {
	if m.ListUsersFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListUsersFunc(ctx, brandID, limit, offset)
}

// MockSongwriterService implements SongwriterServiceInterface for testing
type MockSongwriterService struct {
	GetSongwriterFunc    func(ctx context.Context, brandID, id string) (*models.Songwriter, error)
	ListSongwritersFunc  func(ctx context.Context, brandID string, limit, offset int) ([]*models.Songwriter, error)
	CreateSongwriterFunc func(ctx context.Context, brandID string, sw *models.Songwriter) (*models.Songwriter, error)
	UpdateSongwriterFunc func(ctx context.Context, brandID, id string, sw *models.Songwriter) (*models.Songwriter, error)
	DeleteSongwriterFunc func(ctx context.Context, brandID, id string) error
}

func (m *MockSongwriterService) GetSongwriter(ctx context.Context, brandID, id string) (*models.Songwriter, error) {
	if m.GetSongwriterFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetSongwriterFunc(ctx, brandID, id)
}

func (m *MockSongwriterService) ListSongwriters(ctx context.Context, brandID string, limit, offset int) ([]*models.Songwriter, error) {
	if m.ListSongwritersFunc == nil {
		return []*models.Songwriter{}, nil
	}
	return m.ListSongwritersFunc(ctx, brandID, limit, offset)
}

func (m *MockSongwriterService) CreateSongwriter(ctx context.Context, brandID string, sw *models.Songwriter) (*models.Songwriter, error) {
	if m.CreateSongwriterFunc == nil {
		return nil, models.ErrBadRequest
	}
	return m.CreateSongwriterFunc(ctx, brandID, sw)
}

func (m *MockSongwriterService) UpdateSongwriter(ctx context.Context, brandID, id string, sw *models.Songwriter) (*models.Songwriter, error) {
	if m.UpdateSongwriterFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateSongwriterFunc(ctx, brandID, id, sw)
}

func (m *MockSongwriterService) DeleteSongwriter(ctx context.Context, brandID, id string) error {
	if m.DeleteSongwriterFunc == nil {
		return models.ErrNotFound
	}
	return m.DeleteSongwriterFunc(ctx, brandID, id)
}
