package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/dextersy/label-dashboard/internal/database"
	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/google/uuid"
)

// LoginAttemptRepository handles database operations for login attempts
type LoginAttemptRepository struct {
	db *database.DB
}

// NewLoginAttemptRepository creates a new LoginAttemptRepository
func NewLoginAttemptRepository(db *database.DB) *LoginAttemptRepository {
	return &LoginAttemptRepository{db: db}
}

// RecordAttempt appends one login attempt. Attempts are never updated.
func (r *LoginAttemptRepository) RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	if attempt.AttemptTime.IsZero() {
		attempt.AttemptTime = time.Now()
	}

	query := `
		INSERT INTO login_attempts (id, user_id, attempt_time, success, ip_address, proxy_ip, user_agent, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.AttemptTime,
		attempt.Success,
		attempt.IPAddress,
		attempt.ProxyIP,
		attempt.UserAgent,
		attempt.ExpiresAt,
	)

	return err
}

// GetRecentAttempts returns the most recent attempts for a user, newest first.
func (r *LoginAttemptRepository) GetRecentAttempts(ctx context.Context, userID string, limit int) ([]*models.LoginAttempt, error) {
	query := `
		SELECT id, user_id, attempt_time, success, ip_address, proxy_ip, user_agent, expires_at
		FROM login_attempts
		WHERE user_id = $1
		ORDER BY attempt_time DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query login attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]*models.LoginAttempt, 0, limit)
	for rows.Next() {
		var a models.LoginAttempt
		err := rows.Scan(&a.ID, &a.UserID, &a.AttemptTime, &a.Success,
			&a.IPAddress, &a.ProxyIP, &a.UserAgent, &a.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan login attempt: %w", err)
		}
		attempts = append(attempts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return attempts, nil
}

// DeleteExpiredAttempts removes login attempts past their retention time
func (r *LoginAttemptRepository) DeleteExpiredAttempts(ctx context.Context) (int64, error) {
	query := `DELETE FROM login_attempts WHERE expires_at <= CURRENT_TIMESTAMP`
	result, err := r.db.Pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
