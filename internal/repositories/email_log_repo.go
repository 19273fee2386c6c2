package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/dextersy/label-dashboard/internal/database"
	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/google/uuid"
)

// EmailLogRepository handles database operations for the outbound email log
type EmailLogRepository struct {
	db *database.DB
}

func NewEmailLogRepository(db *database.DB) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

// Append records one outbound email. Log rows are never updated.
func (r *EmailLogRepository) Append(ctx context.Context, log *models.EmailLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.SentAt.IsZero() {
		log.SentAt = time.Now()
	}

	query := `
		INSERT INTO email_logs (id, brand_id, recipient, subject, kind, status, error, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		log.ID, log.BrandID, log.Recipient, log.Subject,
		log.Kind, log.Status, log.Error, log.SentAt,
	)

	return err
}

// ListByBrand returns recent email log rows for a brand, newest first
func (r *EmailLogRepository) ListByBrand(ctx context.Context, brandID string, limit, offset int) ([]*models.EmailLog, error) {
	query := `
		SELECT id, brand_id, recipient, subject, kind, status, error, sent_at
		FROM email_logs
		WHERE brand_id = $1
		ORDER BY sent_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, brandID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query email logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*models.EmailLog, 0)
	for rows.Next() {
		var l models.EmailLog
		err := rows.Scan(&l.ID, &l.BrandID, &l.Recipient, &l.Subject, &l.Kind, &l.Status, &l.Error, &l.SentAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email log: %w", err)
		}
		logs = append(logs, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return logs, nil
}
