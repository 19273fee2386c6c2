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

const ticketTypeColumns = `id, brand_id, event_name, name, price_cents, currency, quantity, max_per_order,
		sales_start, sales_end, active, created_at, updated_at`

type TicketTypeRepository struct {
	db *database.DB
}

func NewTicketTypeRepository(db *database.DB) *TicketTypeRepository {
	return &TicketTypeRepository{db: db}
}

func scanTicketTypeRow(scanner rowScanner) (*models.TicketType, error) {
	var tt models.TicketType

	err := scanner.Scan(
		&tt.ID, &tt.BrandID, &tt.EventName, &tt.Name, &tt.PriceCents, &tt.Currency,
		&tt.Quantity, &tt.MaxPerOrder, &tt.SalesStart, &tt.SalesEnd, &tt.Active,
		&tt.CreatedAt, &tt.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &tt, nil
}

func scanTicketTypeRows(rows pgx.Rows) ([]*models.TicketType, error) {
	defer rows.Close()

	types := make([]*models.TicketType, 0)

	for rows.Next() {
		tt, err := scanTicketTypeRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket type: %w", err)
		}
		types = append(types, tt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return types, nil
}

func (r *TicketTypeRepository) GetByID(ctx context.Context, id string) (*models.TicketType, error) {
	query := `SELECT ` + ticketTypeColumns + ` FROM ticket_types WHERE id = $1`
	return scanTicketTypeRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *TicketTypeRepository) ListByBrand(ctx context.Context, brandID string, limit, offset int) ([]*models.TicketType, error) {
	query := `
		SELECT ` + ticketTypeColumns + `
		FROM ticket_types WHERE brand_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, brandID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket types: %w", err)
	}

	return scanTicketTypeRows(rows)
}

func (r *TicketTypeRepository) Create(ctx context.Context, tt *models.TicketType) (*models.TicketType, error) {
	tt.ID = uuid.New().String()

	now := time.Now()
	tt.CreatedAt = now
	tt.UpdatedAt = now

	if tt.Currency == "" {
		tt.Currency = "USD"
	}

	query := `
		INSERT INTO ticket_types (id, brand_id, event_name, name, price_cents, currency, quantity, max_per_order,
			sales_start, sales_end, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + ticketTypeColumns

	return scanTicketTypeRow(r.db.Pool.QueryRow(ctx, query,
		tt.ID, tt.BrandID, tt.EventName, tt.Name, tt.PriceCents, tt.Currency,
		tt.Quantity, tt.MaxPerOrder, tt.SalesStart, tt.SalesEnd, tt.Active,
		tt.CreatedAt, tt.UpdatedAt,
	))
}

func (r *TicketTypeRepository) Update(ctx context.Context, id string, tt *models.TicketType) (*models.TicketType, error) {
	tt.UpdatedAt = time.Now()

	query := `
		UPDATE ticket_types
		SET event_name = $1, name = $2, price_cents = $3, currency = $4, quantity = $5,
			max_per_order = $6, sales_start = $7, sales_end = $8, active = $9, updated_at = $10
		WHERE id = $11
		RETURNING ` + ticketTypeColumns

	return scanTicketTypeRow(r.db.Pool.QueryRow(ctx, query,
		tt.EventName, tt.Name, tt.PriceCents, tt.Currency, tt.Quantity,
		tt.MaxPerOrder, tt.SalesStart, tt.SalesEnd, tt.Active, tt.UpdatedAt, id,
	))
}

func (r *TicketTypeRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM ticket_types WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
