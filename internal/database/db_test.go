package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPostgresError_Nil(t *testing.T) {
	assert.NoError(t, MapPostgresError(nil))
}

func TestMapPostgresError_NoRows(t *testing.T) {
	err := MapPostgresError(fmt.Errorf("query row: %w", pgx.ErrNoRows))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMapPostgresError_UniqueViolation(t *testing.T) {
	err := MapPostgresError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestMapPostgresError_ForeignKeyViolation(t *testing.T) {
	err := MapPostgresError(&pgconn.PgError{Code: "23503", ConstraintName: "songwriters_brand_id_fkey"})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestMapPostgresError_NotNullViolation(t *testing.T) {
	err := MapPostgresError(&pgconn.PgError{Code: "23502", ColumnName: "email"})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestMapPostgresError_CheckViolations(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{"users_system_no_brand", models.ErrInvalidSystemUser},
		{"users_status_check", models.ErrBadRequest},
		{"songwriters_split_check", models.ErrBadRequest},
		{"ticket_types_price_check", models.ErrBadRequest},
		{"ticket_types_quantity_check", models.ErrBadRequest},
		{"some_future_check", models.ErrBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.constraint, func(t *testing.T) {
			err := MapPostgresError(&pgconn.PgError{Code: "23514", ConstraintName: tc.constraint})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestMapPostgresError_WrappedPgError(t *testing.T) {
	inner := &pgconn.PgError{Code: "23514", ConstraintName: "users_system_no_brand"}
	err := MapPostgresError(fmt.Errorf("insert user: %w", inner))
	assert.ErrorIs(t, err, models.ErrInvalidSystemUser)
}

func TestMapPostgresError_UnknownErrorPassesThrough(t *testing.T) {
	sentinel := errors.New("connection reset")
	assert.Equal(t, sentinel, MapPostgresError(sentinel))
}
