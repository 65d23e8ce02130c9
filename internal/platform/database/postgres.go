package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
)

// Config holds the connection settings for a service's own database.
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect opens a pooled sqlx handle on the postgres driver and pings it.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	if cfg.URL == "" {
		return nil, errors.New("database url is empty")
	}
	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
	outOfRange      = "22003"
)

// Translate classifies driver errors: missing rows become NotFound, unique
// violations Conflict, check violations and out-of-range numbers
// ValidationError. Anything else is
// wrapped as Internal.
func Translate(op string, err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Wrap(apperr.KindNotFound, op, err, notFoundMsg)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case uniqueViolation:
			return apperr.Wrap(apperr.KindConflict, op, err, "record already exists")
		case checkViolation:
			return apperr.Wrap(apperr.KindValidation, op, err, "value violates constraint "+pqErr.Constraint)
		case outOfRange:
			return apperr.Wrap(apperr.KindValidation, op, err, "value out of range")
		}
	}
	return apperr.Wrap(apperr.KindInternal, op, err, "")
}

// WithTx runs fn inside a transaction, committing on success and rolling back
// on error.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
