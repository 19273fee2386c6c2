package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dextersy/label-dashboard/internal/auth"
	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/dextersy/label-dashboard/internal/services"
	pkghttp "github.com/dextersy/label-dashboard/pkg/http"
)

// UserServiceInterface defines the interface for user lifecycle business logic
type UserServiceInterface interface {
	InviteUser(ctx context.Context, req services.InviteUserRequest) (*models.User, error)
	SetupProfile(ctx context.Context, req services.SetupProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ListUsers(ctx context.Context, brandID string, limit, offset int) ([]*models.User, error)
}

// TenantTokenIssuer mints brand-scoped session tokens for newly activated
// accounts.
type TenantTokenIssuer interface {
	GenerateTenantToken(user *models.User) (string, error)
	TenantTokenExpiry() time.Duration
}

// UserHandler handles user account lifecycle requests
type UserHandler struct {
	service UserServiceInterface
	tokens  TenantTokenIssuer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserServiceInterface, tokens TenantTokenIssuer) *UserHandler {
	return &UserHandler{service: service, tokens: tokens}
}

// UserResponse is the user payload returned by account endpoints. Password
// hashes and tokens never leave the service.
type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Username *string `json:"username"`
	Name     string  `json:"name"`
	IsAdmin  bool    `json:"isAdmin"`
	BrandID  *string `json:"brandId"`
	Status   string  `json:"status"`
}

func newUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Name:     user.Name,
		IsAdmin:  user.IsAdmin,
		BrandID:  user.BrandID,
		Status:   user.Status,
	}
}

// Invite handles POST /users/invite
func (h *UserHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req services.InviteUserRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.InviteUser(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "A user with this email already exists")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(newUserResponse(user))
}

// SetupProfileResponse carries the activated account and, for brand-bound
// users, a freshly minted tenant session token.
type SetupProfileResponse struct {
	Token     string        `json:"token,omitempty"`
	ExpiresIn int64         `json:"expiresIn,omitempty"`
	User      *UserResponse `json:"user"`
}

// SetupProfile handles POST /users/setup-profile
func (h *UserHandler) SetupProfile(w http.ResponseWriter, r *http.Request) {
	var req services.SetupProfileRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.SetupProfile(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid or expired invitation")
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "This account is already set up")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, err.Error())
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	resp := SetupProfileResponse{User: newUserResponse(user)}

	// A brand-bound account walks away with a live tenant session so the
	// invitee lands in the dashboard without a second login round trip.
	if user.BrandID != nil {
		token, err := h.tokens.GenerateTenantToken(user)
		if err != nil {
			pkghttp.WriteInternalError(w, "Internal server error")
			return
		}
		resp.Token = token
		resp.ExpiresIn = int64(h.tokens.TenantTokenExpiry().Seconds())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// ChangePassword handles PUT /users/password for the authenticated user
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	err := h.service.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteUnauthorized(w, "Current password is incorrect")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, err.Error())
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteUnauthorized(w, "Authentication required")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ForgotPasswordRequest represents the request body for a reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword handles POST /users/forgot-password. The response is the
// same whether or not the address is registered.
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "If that email is registered, a reset link has been sent.",
	})
}

// ResetPasswordRequest represents the request body for completing a reset
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ResetPassword handles POST /users/reset-password
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid or expired reset link")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, err.Error())
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /brands/{brandID}/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	brandID := brandIDParam(r)
	if brandID == "" {
		pkghttp.WriteBadRequest(w, "brand id is required")
		return
	}

	limit, offset := pagination(r)
	users, err := h.service.ListUsers(r.Context(), brandID, limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, newUserResponse(user))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"users": responses})
}
