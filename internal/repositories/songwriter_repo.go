package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/dextersy/label-dashboard/internal/database"
	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const songwriterColumns = `id, brand_id, name, email, pro_affiliation, ipi_number, split_percent, created_at, updated_at`

type SongwriterRepository struct {
	db *database.DB
}

func NewSongwriterRepository(db *database.DB) *SongwriterRepository {
	return &SongwriterRepository{db: db}
}

func scanSongwriterRow(scanner rowScanner) (*models.Songwriter, error) {
	var sw models.Songwriter

	err := scanner.Scan(
		&sw.ID, &sw.BrandID, &sw.Name, &sw.Email, &sw.ProAffiliation,
		&sw.IPINumber, &sw.SplitPercent, &sw.CreatedAt, &sw.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &sw, nil
}

func scanSongwriterRows(rows pgx.Rows) ([]*models.Songwriter, error) {
	defer rows.Close()

	writers := make([]*models.Songwriter, 0)

	for rows.Next() {
		sw, err := scanSongwriterRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan songwriter: %w", err)
		}
		writers = append(writers, sw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return writers, nil
}

func (r *SongwriterRepository) GetByID(ctx context.Context, id string) (*models.Songwriter, error) {
	query := `SELECT ` + songwriterColumns + ` FROM songwriters WHERE id = $1`
	return scanSongwriterRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *SongwriterRepository) ListByBrand(ctx context.Context, brandID string, limit, offset int) ([]*models.Songwriter, error) {
	query := `
		SELECT ` + songwriterColumns + `
		FROM songwriters WHERE brand_id = $1
		ORDER BY name ASC LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, brandID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query songwriters: %w", err)
	}

	return scanSongwriterRows(rows)
}

func (r *SongwriterRepository) Create(ctx context.Context, sw *models.Songwriter) (*models.Songwriter, error) {
	sw.ID = uuid.New().String()

	now := time.Now()
	sw.CreatedAt = now
	sw.UpdatedAt = now

	query := `
		INSERT INTO songwriters (id, brand_id, name, email, pro_affiliation, ipi_number, split_percent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + songwriterColumns

	return scanSongwriterRow(r.db.Pool.QueryRow(ctx, query,
		sw.ID, sw.BrandID, sw.Name, sw.Email, sw.ProAffiliation,
		sw.IPINumber, sw.SplitPercent, sw.CreatedAt, sw.UpdatedAt,
	))
}

func (r *SongwriterRepository) Update(ctx context.Context, id string, sw *models.Songwriter) (*models.Songwriter, error) {
	sw.UpdatedAt = time.Now()

	query := `
		UPDATE songwriters
		SET name = $1, email = $2, pro_affiliation = $3, ipi_number = $4, split_percent = $5, updated_at = $6
		WHERE id = $7
		RETURNING ` + songwriterColumns

	return scanSongwriterRow(r.db.Pool.QueryRow(ctx, query,
		sw.Name, sw.Email, sw.ProAffiliation, sw.IPINumber, sw.SplitPercent, sw.UpdatedAt, id,
	))
}

func (r *SongwriterRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM songwriters WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
