package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"myapi/internal/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Runner applies schema migrations
type Runner interface {
	// Up runs all pending migrations
	Up() error
	// Down rolls back the last applied migration
	Down() error
	// Version returns the current version and whether it is dirty
	Version() (uint, bool, error)
	// Force sets the version without running migrations
	Force(version int) error
	Close() error
}

// Migrator implements Runner using golang-migrate
type Migrator struct {
	migrate *migrate.Migrate
	log     *logger.Logger
}

// NewMigrator opens the migration files under migrationsPath against db
func NewMigrator(db *sql.DB, migrationsPath string, log *logger.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	source, err := (&file.File{}).Open("file://" + filepath.ToSlash(absPath))
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("file", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return newMigrator(m, log), nil
}

func newMigrator(m *migrate.Migrate, log *logger.Logger) *Migrator {
	return &Migrator{migrate: m, log: log.With(zap.String("component", "migration"))}
}

// Up implements Runner
func (m *Migrator) Up() error {
	m.log.Info("Running migrations up")
	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info("No migrations to run")
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}
	m.log.Info("Migrations completed successfully")
	return nil
}

// Down implements Runner; only the most recent migration is rolled back
func (m *Migrator) Down() error {
	m.log.Info("Rolling back last migration")
	if err := m.migrate.Steps(-1); err != nil {
		if errors.Is(err, migrate.ErrNoChange) || errors.Is(err, migrate.ErrNilVersion) {
			m.log.Info("No migrations to roll back")
			return nil
		}
		return fmt.Errorf("migrate down: %w", err)
	}
	m.log.Info("Migration rollback completed")
	return nil
}

// Version implements Runner
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get version: %w", err)
	}
	return version, dirty, nil
}

// Force implements Runner
func (m *Migrator) Force(version int) error {
	m.log.Info("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("force version: %w", err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close database: %w", dbErr)
	}
	return nil
}

// Direction selects what Apply does
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionVersion Direction = "version"
)

// ErrDirtyDatabase is returned by Apply when a previous migration failed halfway
var ErrDirtyDatabase = errors.New("database is in a dirty migration state")

// Apply runs one migration command against r and logs the resulting version.
// A dirty database is reported instead of silently forced.
func Apply(r Runner, direction Direction, log *logger.Logger) error {
	version, dirty, err := r.Version()
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("%w: version %d, fix it and run force", ErrDirtyDatabase, version)
	}

	switch direction {
	case DirectionUp:
		err = r.Up()
	case DirectionDown:
		err = r.Down()
	case DirectionVersion:
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil {
		return err
	}

	version, dirty, err = r.Version()
	if err != nil {
		return err
	}
	log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
