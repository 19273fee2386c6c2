package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dextersy/label-dashboard/internal/models"
)

// SongwriterRepository defines the interface for songwriter data operations
type SongwriterRepository interface {
	GetByID(ctx context.Context, id string) (*models.Songwriter, error)
	ListByBrand(ctx context.Context, brandID string, limit, offset int) ([]*models.Songwriter, error)
	Create(ctx context.Context, sw *models.Songwriter) (*models.Songwriter, error)
	Update(ctx context.Context, id string, sw *models.Songwriter) (*models.Songwriter, error)
	Delete(ctx context.Context, id string) error
}

// SongwriterService manages a brand's songwriter roster.
type SongwriterService struct {
	repo   SongwriterRepository
	logger *slog.Logger
}

// NewSongwriterService creates a new SongwriterService
func NewSongwriterService(repo SongwriterRepository, logger *slog.Logger) *SongwriterService {
	return &SongwriterService{repo: repo, logger: logger}
}

// GetSongwriter fetches one songwriter, scoped to the caller's brand.
func (s *SongwriterService) GetSongwriter(ctx context.Context, brandID, id string) (*models.Songwriter, error) {
	sw, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sw.BrandID != brandID {
		// Cross-brand ids read as missing, not forbidden
		return nil, models.ErrNotFound
	}
	return sw, nil
}

// ListSongwriters returns a brand's songwriters
func (s *SongwriterService) ListSongwriters(ctx context.Context, brandID string, limit, offset int) ([]*models.Songwriter, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByBrand(ctx, brandID, limit, offset)
}

// CreateSongwriter adds a songwriter to the brand roster
func (s *SongwriterService) CreateSongwriter(ctx context.Context, brandID string, sw *models.Songwriter) (*models.Songwriter, error) {
	if err := validateSongwriter(sw); err != nil {
		return nil, err
	}
	sw.BrandID = brandID

	created, err := s.repo.Create(ctx, sw)
	if err != nil {
		return nil, err
	}

	s.logger.Info("songwriter created",
		slog.String("songwriter_id", created.ID),
		slog.String("brand_id", brandID))

	return created, nil
}

// UpdateSongwriter updates a songwriter, scoped to the caller's brand.
func (s *SongwriterService) UpdateSongwriter(ctx context.Context, brandID, id string, sw *models.Songwriter) (*models.Songwriter, error) {
	existing, err := s.GetSongwriter(ctx, brandID, id)
	if err != nil {
		return nil, err
	}
	if err := validateSongwriter(sw); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, existing.ID, sw)
}

// DeleteSongwriter removes a songwriter, scoped to the caller's brand.
func (s *SongwriterService) DeleteSongwriter(ctx context.Context, brandID, id string) error {
	if _, err := s.GetSongwriter(ctx, brandID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validateSongwriter(sw *models.Songwriter) error {
	if sw.Name == "" {
		return fmt.Errorf("%w: name is required", models.ErrBadRequest)
	}
	if sw.SplitPercent < 0 || sw.SplitPercent > 100 {
		return fmt.Errorf("%w: split percent must be between 0 and 100", models.ErrBadRequest)
	}
	return nil
}
