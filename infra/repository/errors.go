package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sunubank/ledger/pkg/domain"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes that mean "retry the whole unit of work".
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// mapError translates storage errors into the domain taxonomy. notFound is
// the sentinel to return for gorm.ErrRecordNotFound, so each repository
// reports the entity that was missing.
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%w: %s", domain.ErrConcurrencyConflict, pgErr.Code)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}

// translateConflict rewraps retryable postgres errors and leaves every
// other error untouched, including domain errors returned by fn.
func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%w: %s", domain.ErrConcurrencyConflict, pgErr.Code)
		}
	}
	return err
}
