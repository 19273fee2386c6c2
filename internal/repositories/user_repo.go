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

const userColumns = `id, email, username, password_hash, name, is_admin, is_system_user, brand_id, status,
		invite_token, invite_expires_at, reset_token, reset_expires_at, last_login_at, created_at, updated_at`

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// rowScanner interface for scanning user rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var passwordHash *string

	err := scanner.Scan(
		&user.ID, &user.Email, &user.Username, &passwordHash, &user.Name,
		&user.IsAdmin, &user.IsSystemUser, &user.BrandID, &user.Status,
		&user.InviteToken, &user.InviteExpiresAt,
		&user.ResetToken, &user.ResetExpiresAt,
		&user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}

	return &user, nil
}

// scanUserRows iterates through rows and scans each into User models
func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, email))
}

// GetSystemUserByLogin finds a system user by email or username. The filter on
// is_system_user and the null brand lives in the query so the system login
// path can never pick up a tenant account.
func (r *UserRepository) GetSystemUserByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE (email = $1 OR username = $1)
		  AND is_system_user = true
		  AND brand_id IS NULL
	`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, login))
}

func (r *UserRepository) GetByInviteToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE invite_token = $1`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, token))
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, token))
}

func (r *UserRepository) ListByBrand(ctx context.Context, brandID string, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE brand_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, brandID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	query := `
		INSERT INTO users (id, email, username, password_hash, name, is_admin, is_system_user, brand_id, status,
			invite_token, invite_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + userColumns

	var passwordHash *string
	if user.PasswordHash != "" {
		passwordHash = &user.PasswordHash
	}

	return scanUserRow(r.db.Pool.QueryRow(ctx, query,
		user.ID, user.Email, user.Username, passwordHash, user.Name,
		user.IsAdmin, user.IsSystemUser, user.BrandID, user.Status,
		user.InviteToken, user.InviteExpiresAt, user.CreatedAt, user.UpdatedAt,
	))
}

func (r *UserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET name = $1, username = $2, is_admin = $3, status = $4,
			invite_token = $5, invite_expires_at = $6,
			reset_token = $7, reset_expires_at = $8,
			updated_at = $9
		WHERE id = $10
		RETURNING ` + userColumns

	return scanUserRow(r.db.Pool.QueryRow(ctx, query,
		user.Name, user.Username, user.IsAdmin, user.Status,
		user.InviteToken, user.InviteExpiresAt,
		user.ResetToken, user.ResetExpiresAt,
		user.UpdatedAt, id,
	))
}

// UpdatePassword replaces the stored hash. Invite and reset tokens are cleared
// in the same statement so a consumed token cannot be replayed.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, invite_token = NULL, invite_expires_at = NULL,
			reset_token = NULL, reset_expires_at = NULL, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Pool.Exec(ctx, query, passwordHash, time.Now(), id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET last_login_at = $1, updated_at = $1 WHERE id = $2`

	result, err := r.db.Pool.Exec(ctx, query, at, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
