package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned on unique constraint violations
	ErrDuplicate = errors.New("duplicate record")
	// ErrTimeout is returned when a query exceeds its deadline
	ErrTimeout = errors.New("query timeout")
)

// uniqueViolation is the postgres SQLSTATE for unique_violation
const uniqueViolation = "23505"

// Translate maps driver and ORM errors onto the package sentinels.
// Unknown errors are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Join(ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(ErrDuplicate, err)
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Join(ErrTimeout, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errors.Join(ErrDuplicate, err)
	}

	return err
}
