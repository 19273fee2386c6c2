package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dextersy/label-dashboard/internal/auth"
	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/dextersy/label-dashboard/internal/services"
	pkghttp "github.com/dextersy/label-dashboard/pkg/http"
)

// SystemAuthServiceInterface defines the interface for system auth business logic
type SystemAuthServiceInterface interface {
	Login(ctx context.Context, login, password string, addrs pkghttp.ClientAddrs, userAgent string) (*services.LoginResult, error)
	CheckAuth(ctx context.Context, claims *models.TokenClaims) (*services.SystemUserResponse, error)
	Refresh(ctx context.Context, claims *models.TokenClaims) (*services.LoginResult, error)
}

// SystemAuthHandler handles system console authentication requests
type SystemAuthHandler struct {
	service SystemAuthServiceInterface
}

// NewSystemAuthHandler creates a new SystemAuthHandler
func NewSystemAuthHandler(service SystemAuthServiceInterface) *SystemAuthHandler {
	return &SystemAuthHandler{service: service}
}

// SystemLoginRequest represents the request body for system login. The email
// field also accepts a username; lookup covers both.
type SystemLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /system/login
func (h *SystemAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req SystemLoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	addrs := pkghttp.ExtractClientAddrs(r)
	userAgent := r.Header.Get("User-Agent")

	result, err := h.service.Login(r.Context(), req.Email, req.Password, addrs, userAgent)
	if err != nil {
		var lockErr *models.AccountLockedError
		switch {
		case errors.Is(err, models.ErrMissingCredentials):
			pkghttp.WriteBadRequest(w, "Email and password are required")
		case errors.Is(err, models.ErrInvalidCredentials):
			// One body for unknown user, wrong password and tenant accounts
			// so the response cannot reveal which logins exist
			pkghttp.WriteUnauthorized(w, "Invalid username or password.")
		case errors.Is(err, models.ErrInvalidSystemUser), errors.Is(err, models.ErrAccountDisabled):
			pkghttp.WriteForbidden(w, "This account cannot access the system console.")
		case errors.As(err, &lockErr):
			pkghttp.WriteLocked(w,
				lockedMessage(lockErr.RetryAfterMinutes()),
				int(lockErr.RetryAfter.Seconds()))
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// CheckAuth handles GET /system/check-auth
func (h *SystemAuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.service.CheckAuth(r.Context(), claims)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"authenticated": true,
		"user":          user,
	})
}

// Refresh handles POST /system/refresh
func (h *SystemAuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	result, err := h.service.Refresh(r.Context(), claims)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "This account cannot access the system console.")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

func lockedMessage(minutes int) string {
	if minutes == 1 {
		return "Account is temporarily locked. Please try again after 1 minute."
	}
	return fmt.Sprintf("Account is temporarily locked. Please try again after %d minutes.", minutes)
}
