package database

import (
	"context"
	"errors"

	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// MapPostgresError translates driver errors into the domain sentinels so
// callers above the repository layer never inspect SQLSTATE codes.
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return models.ErrConflict
		case pgForeignKeyViolation, pgNotNullViolation:
			return models.ErrBadRequest
		case pgCheckViolation:
			return mapCheckViolation(pgErr.ConstraintName)
		}
	}

	return err
}

// mapCheckViolation names the schema's check constraints. A system account
// acquiring a brand breaks the account model itself; the remaining checks are
// ordinary malformed writes.
func mapCheckViolation(constraint string) error {
	if constraint == "users_system_no_brand" {
		return models.ErrInvalidSystemUser
	}
	return models.ErrBadRequest
}

func (db *DB) WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}
