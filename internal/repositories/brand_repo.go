package repositories

import (
	"context"
	"time"

	"github.com/dextersy/label-dashboard/internal/database"
	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/google/uuid"
)

const brandColumns = `id, name, slug, website_domain, custom_domain, domain_verified, domain_verified_at, created_at, updated_at`

type BrandRepository struct {
	db *database.DB
}

func NewBrandRepository(db *database.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

func scanBrandRow(scanner rowScanner) (*models.Brand, error) {
	var brand models.Brand

	err := scanner.Scan(
		&brand.ID, &brand.Name, &brand.Slug, &brand.WebsiteDomain,
		&brand.CustomDomain, &brand.DomainVerified, &brand.DomainVerifiedAt,
		&brand.CreatedAt, &brand.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &brand, nil
}

func (r *BrandRepository) GetByID(ctx context.Context, id string) (*models.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE id = $1`
	return scanBrandRow(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByDomain resolves a brand from either its assigned website domain or a
// verified custom domain. This backs the public storefront lookup.
func (r *BrandRepository) GetByDomain(ctx context.Context, domain string) (*models.Brand, error) {
	query := `
		SELECT ` + brandColumns + `
		FROM brands
		WHERE website_domain = $1 OR (custom_domain = $1 AND domain_verified = true)
	`
	return scanBrandRow(r.db.Pool.QueryRow(ctx, query, domain))
}

func (r *BrandRepository) Create(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	brand.ID = uuid.New().String()

	now := time.Now()
	brand.CreatedAt = now
	brand.UpdatedAt = now

	query := `
		INSERT INTO brands (id, name, slug, website_domain, custom_domain, domain_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + brandColumns

	return scanBrandRow(r.db.Pool.QueryRow(ctx, query,
		brand.ID, brand.Name, brand.Slug, brand.WebsiteDomain,
		brand.CustomDomain, brand.DomainVerified, brand.CreatedAt, brand.UpdatedAt,
	))
}

// SetCustomDomain stages a custom domain for verification, clearing any
// previous verification state.
func (r *BrandRepository) SetCustomDomain(ctx context.Context, id, domain string) (*models.Brand, error) {
	query := `
		UPDATE brands
		SET custom_domain = $1, domain_verified = false, domain_verified_at = NULL, updated_at = $2
		WHERE id = $3
		RETURNING ` + brandColumns

	return scanBrandRow(r.db.Pool.QueryRow(ctx, query, domain, time.Now(), id))
}

// MarkDomainVerified records a successful SSL provisioning run.
func (r *BrandRepository) MarkDomainVerified(ctx context.Context, id string, at time.Time) (*models.Brand, error) {
	query := `
		UPDATE brands
		SET domain_verified = true, domain_verified_at = $1, updated_at = $1
		WHERE id = $2
		RETURNING ` + brandColumns

	return scanBrandRow(r.db.Pool.QueryRow(ctx, query, at, id))
}
