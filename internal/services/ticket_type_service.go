package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dextersy/label-dashboard/internal/models"
)

// TicketTypeRepository defines the interface for ticket type data operations
type TicketTypeRepository interface {
	GetByID(ctx context.Context, id string) (*models.TicketType, error)
	ListByBrand(ctx context.Context, brandID string, limit, offset int) ([]*models.TicketType, error)
	Create(ctx context.Context, tt *models.TicketType) (*models.TicketType, error)
	Update(ctx context.Context, id string, tt *models.TicketType) (*models.TicketType, error)
	Delete(ctx context.Context, id string) error
}

// TicketTypeService manages a brand's event ticket inventory.
type TicketTypeService struct {
	repo   TicketTypeRepository
	logger *slog.Logger
}

// NewTicketTypeService creates a new TicketTypeService
func NewTicketTypeService(repo TicketTypeRepository, logger *slog.Logger) *TicketTypeService {
	return &TicketTypeService{repo: repo, logger: logger}
}

// GetTicketType fetches one ticket type, scoped to the caller's brand.
func (s *TicketTypeService) GetTicketType(ctx context.Context, brandID, id string) (*models.TicketType, error) {
	tt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tt.BrandID != brandID {
		return nil, models.ErrNotFound
	}
	return tt, nil
}

// ListTicketTypes returns a brand's ticket types
func (s *TicketTypeService) ListTicketTypes(ctx context.Context, brandID string, limit, offset int) ([]*models.TicketType, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByBrand(ctx, brandID, limit, offset)
}

// CreateTicketType adds a ticket type to a brand's inventory
func (s *TicketTypeService) CreateTicketType(ctx context.Context, brandID string, tt *models.TicketType) (*models.TicketType, error) {
	if err := validateTicketType(tt); err != nil {
		return nil, err
	}
	tt.BrandID = brandID

	created, err := s.repo.Create(ctx, tt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket type created",
		slog.String("ticket_type_id", created.ID),
		slog.String("brand_id", brandID))

	return created, nil
}

// UpdateTicketType updates a ticket type, scoped to the caller's brand.
func (s *TicketTypeService) UpdateTicketType(ctx context.Context, brandID, id string, tt *models.TicketType) (*models.TicketType, error) {
	existing, err := s.GetTicketType(ctx, brandID, id)
	if err != nil {
		return nil, err
	}
	if err := validateTicketType(tt); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, existing.ID, tt)
}

// DeleteTicketType removes a ticket type, scoped to the caller's brand.
func (s *TicketTypeService) DeleteTicketType(ctx context.Context, brandID, id string) error {
	if _, err := s.GetTicketType(ctx, brandID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validateTicketType(tt *models.TicketType) error {
	if tt.EventName == "" || tt.Name == "" {
		return fmt.Errorf("%w: event name and name are required", models.ErrBadRequest)
	}
	if tt.PriceCents < 0 {
		return fmt.Errorf("%w: price must not be negative", models.ErrBadRequest)
	}
	if tt.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", models.ErrBadRequest)
	}
	if tt.SalesStart != nil && tt.SalesEnd != nil && tt.SalesEnd.Before(*tt.SalesStart) {
		return fmt.Errorf("%w: sales end must not precede sales start", models.ErrBadRequest)
	}
	return nil
}
