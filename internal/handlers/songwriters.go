package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dextersy/label-dashboard/internal/models"
	pkghttp "github.com/dextersy/label-dashboard/pkg/http"
)

// SongwriterServiceInterface defines the interface for songwriter business logic
type SongwriterServiceInterface interface {
	GetSongwriter(ctx context.Context, brandID, id string) (*models.Songwriter, error)
	ListSongwriters(ctx context.Context, brandID string, limit, offset int) ([]*models.Songwriter, error)
	CreateSongwriter(ctx context.Context, brandID string, sw *models.Songwriter) (*models.Songwriter, error)
	UpdateSongwriter(ctx context.Context, brandID, id string, sw *models.Songwriter) (*models.Songwriter, error)
	DeleteSongwriter(ctx context.Context, brandID, id string) error
}

// SongwriterHandler handles songwriter roster requests
type SongwriterHandler struct {
	service SongwriterServiceInterface
}

// NewSongwriterHandler creates a new SongwriterHandler
func NewSongwriterHandler(service SongwriterServiceInterface) *SongwriterHandler {
	return &SongwriterHandler{service: service}
}

// SongwriterRequest represents the request body for creating or updating a songwriter
type SongwriterRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=200"`
	Email          *string `json:"email" validate:"omitempty,email"`
	ProAffiliation *string `json:"proAffiliation" validate:"omitempty,max=50"`
	IPINumber      *string `json:"ipiNumber" validate:"omitempty,max=20"`
	SplitPercent   float64 `json:"splitPercent" validate:"gte=0,lte=100"`
}

func (req *SongwriterRequest) toModel() *models.Songwriter {
	return &models.Songwriter{
		Name:           req.Name,
		Email:          req.Email,
		ProAffiliation: req.ProAffiliation,
		IPINumber:      req.IPINumber,
		SplitPercent:   req.SplitPercent,
	}
}

// SongwriterResponse is the songwriter payload returned by roster endpoints
type SongwriterResponse struct {
	ID             string  `json:"id"`
	BrandID        string  `json:"brandId"`
	Name           string  `json:"name"`
	Email          *string `json:"email"`
	ProAffiliation *string `json:"proAffiliation"`
	IPINumber      *string `json:"ipiNumber"`
	SplitPercent   float64 `json:"splitPercent"`
}

func newSongwriterResponse(sw *models.Songwriter) *SongwriterResponse {
	return &SongwriterResponse{
		ID:             sw.ID,
		BrandID:        sw.BrandID,
		Name:           sw.Name,
		Email:          sw.Email,
		ProAffiliation: sw.ProAffiliation,
		IPINumber:      sw.IPINumber,
		SplitPercent:   sw.SplitPercent,
	}
}

// List handles GET /brands/{brandID}/songwriters
func (h *SongwriterHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	writers, err := h.service.ListSongwriters(r.Context(), brandIDParam(r), limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	responses := make([]*SongwriterResponse, 0, len(writers))
	for _, sw := range writers {
		responses = append(responses, newSongwriterResponse(sw))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"songwriters": responses})
}

// Get handles GET /brands/{brandID}/songwriters/{id}
func (h *SongwriterHandler) Get(w http.ResponseWriter, r *http.Request) {
	sw, err := h.service.GetSongwriter(r.Context(), brandIDParam(r), idParam(r))
	if err != nil {
		writeSongwriterError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newSongwriterResponse(sw))
}

// Create handles POST /brands/{brandID}/songwriters
func (h *SongwriterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SongwriterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	sw, err := h.service.CreateSongwriter(r.Context(), brandIDParam(r), req.toModel())
	if err != nil {
		writeSongwriterError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(newSongwriterResponse(sw))
}

// Update handles PUT /brands/{brandID}/songwriters/{id}
func (h *SongwriterHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req SongwriterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	sw, err := h.service.UpdateSongwriter(r.Context(), brandIDParam(r), idParam(r), req.toModel())
	if err != nil {
		writeSongwriterError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newSongwriterResponse(sw))
}

// Delete handles DELETE /brands/{brandID}/songwriters/{id}
func (h *SongwriterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSongwriter(r.Context(), brandIDParam(r), idParam(r)); err != nil {
		writeSongwriterError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeSongwriterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Songwriter not found")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
