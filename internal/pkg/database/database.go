package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"myapi/internal/pkg/config"
	"myapi/internal/pkg/logger"
	"myapi/internal/pkg/retry"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database wraps gorm.DB
type Database struct {
	*gorm.DB
	queryTimeout time.Duration
}

// DSN builds the postgres connection string
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
}

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.Config, log *logger.Logger) (*Database, error) {
	gormLog := gormlogger.New(
		&gormLogWriter{logger: log},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(DSN(cfg.Database)), &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
		// postgres timestamps keep microseconds
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = retry.Run(ctx, retry.ConnectPolicy(cfg.Database.ConnectAttempts), sqlDB.PingContext,
		func(attempt int, err error, delay time.Duration) {
			log.Warn("Database not reachable, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
		})
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.DBName),
	)

	return &Database{DB: db, queryTimeout: cfg.Database.QueryTimeout}, nil
}

// gormLogWriter implements gorm logger.Writer interface
type gormLogWriter struct {
	logger *logger.Logger
}

// Printf implements gorm logger.Writer interface
func (w *gormLogWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn(fmt.Sprintf(format, args...))
}

// WithTimeout bounds ctx by the configured query timeout
func (d *Database) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.queryTimeout)
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SQLDB returns the underlying *sql.DB for use with migration tools
func (d *Database) SQLDB() (*sql.DB, error) {
	return d.DB.DB()
}
