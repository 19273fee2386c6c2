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

// TicketTypeServiceInterface defines the interface for ticket type business logic
type TicketTypeServiceInterface interface {
	GetTicketType(ctx context.Context, brandID, id string) (*models.TicketType, error)
	ListTicketTypes(ctx context.Context, brandID string, limit, offset int) ([]*models.TicketType, error)
	CreateTicketType(ctx context.Context, brandID string, tt *models.TicketType) (*models.TicketType, error)
	UpdateTicketType(ctx context.Context, brandID, id string, tt *models.TicketType) (*models.TicketType, error)
	DeleteTicketType(ctx context.Context, brandID, id string) error
}

// TicketTypeHandler handles event ticket inventory requests
type TicketTypeHandler struct {
	service TicketTypeServiceInterface
}

// NewTicketTypeHandler creates a new TicketTypeHandler
func NewTicketTypeHandler(service TicketTypeServiceInterface) *TicketTypeHandler {
	return &TicketTypeHandler{service: service}
}

// TicketTypeRequest represents the request body for creating or updating a ticket type
type TicketTypeRequest struct {
	EventName   string     `json:"eventName" validate:"required,min=1,max=200"`
	Name        string     `json:"name" validate:"required,min=1,max=100"`
	PriceCents  int64      `json:"priceCents" validate:"gte=0"`
	Currency    string     `json:"currency" validate:"omitempty,len=3"`
	Quantity    int        `json:"quantity" validate:"gte=0"`
	MaxPerOrder int        `json:"maxPerOrder" validate:"gte=0"`
	SalesStart  *time.Time `json:"salesStart"`
	SalesEnd    *time.Time `json:"salesEnd"`
	Active      bool       `json:"active"`
}

func (req *TicketTypeRequest) toModel() *models.TicketType {
	return &models.TicketType{
		EventName:   req.EventName,
		Name:        req.Name,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		Quantity:    req.Quantity,
		MaxPerOrder: req.MaxPerOrder,
		SalesStart:  req.SalesStart,
		SalesEnd:    req.SalesEnd,
		Active:      req.Active,
	}
}

// TicketTypeResponse is the ticket type payload returned by inventory endpoints
type TicketTypeResponse struct {
	ID          string     `json:"id"`
	BrandID     string     `json:"brandId"`
	EventName   string     `json:"eventName"`
	Name        string     `json:"name"`
	PriceCents  int64      `json:"priceCents"`
	Currency    string     `json:"currency"`
	Quantity    int        `json:"quantity"`
	MaxPerOrder int        `json:"maxPerOrder"`
	SalesStart  *time.Time `json:"salesStart"`
	SalesEnd    *time.Time `json:"salesEnd"`
	Active      bool       `json:"active"`
}

func newTicketTypeResponse(tt *models.TicketType) *TicketTypeResponse {
	return &TicketTypeResponse{
		ID:          tt.ID,
		BrandID:     tt.BrandID,
		EventName:   tt.EventName,
		Name:        tt.Name,
		PriceCents:  tt.PriceCents,
		Currency:    tt.Currency,
		Quantity:    tt.Quantity,
		MaxPerOrder: tt.MaxPerOrder,
		SalesStart:  tt.SalesStart,
		SalesEnd:    tt.SalesEnd,
		Active:      tt.Active,
	}
}

// List handles GET /brands/{brandID}/ticket-types
func (h *TicketTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	types, err := h.service.ListTicketTypes(r.Context(), brandIDParam(r), limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	responses := make([]*TicketTypeResponse, 0, len(types))
	for _, tt := range types {
		responses = append(responses, newTicketTypeResponse(tt))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"ticketTypes": responses})
}

// Get handles GET /brands/{brandID}/ticket-types/{id}
func (h *TicketTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	tt, err := h.service.GetTicketType(r.Context(), brandIDParam(r), idParam(r))
	if err != nil {
		writeTicketTypeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newTicketTypeResponse(tt))
}

// Create handles POST /brands/{brandID}/ticket-types
func (h *TicketTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TicketTypeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	tt, err := h.service.CreateTicketType(r.Context(), brandIDParam(r), req.toModel())
	if err != nil {
		writeTicketTypeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(newTicketTypeResponse(tt))
}

// Update handles PUT /brands/{brandID}/ticket-types/{id}
func (h *TicketTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req TicketTypeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	tt, err := h.service.UpdateTicketType(r.Context(), brandIDParam(r), idParam(r), req.toModel())
	if err != nil {
		writeTicketTypeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newTicketTypeResponse(tt))
}

// Delete handles DELETE /brands/{brandID}/ticket-types/{id}
func (h *TicketTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTicketType(r.Context(), brandIDParam(r), idParam(r)); err != nil {
		writeTicketTypeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeTicketTypeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Ticket type not found")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
