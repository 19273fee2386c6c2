package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dextersy/label-dashboard/internal/models"
	pkghttp "github.com/dextersy/label-dashboard/pkg/http"
)

// BrandServiceInterface defines the interface for brand business logic
type BrandServiceInterface interface {
	GetBrand(ctx context.Context, id string) (*models.Brand, error)
	GetBrandByDomain(ctx context.Context, host string) (*models.Brand, error)
	SetCustomDomain(ctx context.Context, brandID, domain string) (*models.Brand, error)
	VerifyDomain(ctx context.Context, brandID string) (*models.Brand, error)
}

// EmailLogLister returns a brand's outbound email history.
type EmailLogLister interface {
	ListByBrand(ctx context.Context, brandID string, limit, offset int) ([]*models.EmailLog, error)
}

// BrandHandler handles brand and custom domain requests
type BrandHandler struct {
	service   BrandServiceInterface
	emailLogs EmailLogLister
}

// NewBrandHandler creates a new BrandHandler
func NewBrandHandler(service BrandServiceInterface, emailLogs EmailLogLister) *BrandHandler {
	return &BrandHandler{service: service, emailLogs: emailLogs}
}

// BrandResponse is the brand payload returned by brand endpoints
type BrandResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	WebsiteDomain  string  `json:"websiteDomain"`
	CustomDomain   *string `json:"customDomain"`
	DomainVerified bool    `json:"domainVerified"`
}

func newBrandResponse(brand *models.Brand) *BrandResponse {
	return &BrandResponse{
		ID:             brand.ID,
		Name:           brand.Name,
		Slug:           brand.Slug,
		WebsiteDomain:  brand.WebsiteDomain,
		CustomDomain:   brand.CustomDomain,
		DomainVerified: brand.DomainVerified,
	}
}

// GetByDomain handles GET /brands/by-domain?domain=...
// The storefront uses this to resolve which brand serves a request host.
func (h *BrandHandler) GetByDomain(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		domain = r.Host
	}

	brand, err := h.service.GetBrandByDomain(r.Context(), domain)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "A valid domain is required")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "No brand is served on this domain")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newBrandResponse(brand))
}

// Get handles GET /brands/{brandID}
func (h *BrandHandler) Get(w http.ResponseWriter, r *http.Request) {
	brand, err := h.service.GetBrand(r.Context(), brandIDParam(r))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Brand not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newBrandResponse(brand))
}

// SetCustomDomainRequest represents the request body for staging a custom domain
type SetCustomDomainRequest struct {
	Domain string `json:"domain" validate:"required,fqdn"`
}

// SetCustomDomain handles PUT /brands/{brandID}/custom-domain
func (h *BrandHandler) SetCustomDomain(w http.ResponseWriter, r *http.Request) {
	var req SetCustomDomainRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	brand, err := h.service.SetCustomDomain(r.Context(), brandIDParam(r), req.Domain)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidDomain):
			pkghttp.WriteBadRequest(w, "Invalid domain name")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Brand not found")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newBrandResponse(brand))
}

// VerifyDomain handles POST /brands/{brandID}/verify-domain
func (h *BrandHandler) VerifyDomain(w http.ResponseWriter, r *http.Request) {
	brand, err := h.service.VerifyDomain(r.Context(), brandIDParam(r))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Brand not found")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "No custom domain is staged for this brand")
		case errors.Is(err, models.ErrInvalidDomain):
			pkghttp.WriteBadRequest(w, "Invalid domain name")
		case errors.Is(err, models.ErrDomainNotPointed):
			pkghttp.WriteUnprocessable(w, "The domain does not point at this service yet. Update its DNS record and try again.")
		default:
			pkghttp.WriteInternalError(w, "SSL provisioning failed")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newBrandResponse(brand))
}

// EmailLogResponse is one row of a brand's outbound email history
type EmailLogResponse struct {
	ID        string  `json:"id"`
	Recipient string  `json:"recipient"`
	Subject   string  `json:"subject"`
	Kind      string  `json:"kind"`
	Status    string  `json:"status"`
	Error     *string `json:"error,omitempty"`
	SentAt    string  `json:"sentAt"`
}

// ListEmailLogs handles GET /brands/{brandID}/email-logs
func (h *BrandHandler) ListEmailLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	logs, err := h.emailLogs.ListByBrand(r.Context(), brandIDParam(r), limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	responses := make([]*EmailLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, &EmailLogResponse{
			ID:        log.ID,
			Recipient: log.Recipient,
			Subject:   log.Subject,
			Kind:      log.Kind,
			Status:    log.Status,
			Error:     log.Error,
			SentAt:    log.SentAt.UTC().Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"emailLogs": responses})
}
