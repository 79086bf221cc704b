package main

import (
	"fmt"

	"myapi/internal/pkg/config"
	"myapi/internal/pkg/database"
	"myapi/internal/pkg/logger"
	"myapi/internal/pkg/migration"
	"myapi/internal/service/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// newMigrateCmd creates the migrate command
func newMigrateCmd() *cobra.Command {
	var force int

	cmd := &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Run database migrations",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(migration.DirectionUp), string(migration.DirectionDown), string(migration.DirectionVersion)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := migration.DirectionUp
			if len(args) == 1 {
				direction = migration.Direction(args[0])
			}
			return runMigrations(direction, force)
		},
	}
	cmd.Flags().IntVar(&force, "force", -1, "force the schema version and clear the dirty flag before running")

	return cmd
}

// runMigrations applies the SQL migrations in database.migrations_path
func runMigrations(direction migration.Direction, force int) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	var log *logger.Logger
	var db *database.Database

	app := fx.New(
		catalog.NewMigrationApp(cfg),
		fx.NopLogger,
		fx.Populate(&log, &db),
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	if err := startApp(app, "migration"); err != nil {
		return err
	}

	if err := migrate(db, cfg.Database.MigrationsPath, direction, force, log); err != nil {
		_ = stopApp(app, "migration")
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return stopApp(app, "migration")
}

func migrate(db *database.Database, path string, direction migration.Direction, force int, log *logger.Logger) error {
	sqlDB, err := db.SQLDB()
	if err != nil {
		return err
	}

	m, err := migration.NewMigrator(sqlDB, path, log)
	if err != nil {
		return err
	}
	defer m.Close()

	if force >= 0 {
		if err := m.Force(force); err != nil {
			return err
		}
	}

	return migration.Apply(m, direction, log)
}
