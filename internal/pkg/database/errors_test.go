package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"myapi/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	other := errors.New("connection reset")

	assert.NoError(t, Translate(nil))
	assert.ErrorIs(t, Translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, Translate(gorm.ErrDuplicatedKey), ErrDuplicate)
	assert.ErrorIs(t, Translate(fmt.Errorf("insert: %w", unique)), ErrDuplicate)
	assert.ErrorIs(t, Translate(context.DeadlineExceeded), ErrTimeout)
	assert.Equal(t, other, Translate(other))
}

func TestTranslate_KeepsOriginalCause(t *testing.T) {
	err := Translate(gorm.ErrRecordNotFound)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "app",
		Password: "pw",
		DBName:   "catalog",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=catalog sslmode=disable", DSN(cfg))
}
