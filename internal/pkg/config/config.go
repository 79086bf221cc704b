package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. APP_SERVER_PORT
const EnvPrefix = "APP"

// defaultConfigPaths are searched in order for config.yaml
var defaultConfigPaths = []string{"./config", ".", "../../../../config"}

// NewConfig loads configuration from .env, config/config.yaml, environment
// variables and defaults, in increasing order of precedence for env vars
func NewConfig() (*Config, error) {
	return Load(defaultConfigPaths...)
}

// Load loads configuration searching config.yaml in the given directories
func Load(paths ...string) (*Config, error) {
	// .env is optional; values already present in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults and env vars still apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.request_timeout", "30s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "myapi")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.query_timeout", "5s")
	v.SetDefault("database.migrations_path", "migrations")
	v.SetDefault("database.connect_attempts", 5)

	v.SetDefault("storage.driver", DriverMemory)

	v.SetDefault("session.store", DriverMemory)
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.purge_schedule", "@every 5m")
	v.SetDefault("session.key_prefix", "session")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "myapi")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 0)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.tls", false)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("products.require_auth", false)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 10)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.storage", DriverMemory)
	v.SetDefault("rate_limit.fail_open", true)

	v.SetDefault("idempotency.enabled", true)
	v.SetDefault("idempotency.ttl", "24h")
	v.SetDefault("idempotency.storage", DriverMemory)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// validateConfig validates struct tags and cross-field rules
func validateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}

	if len(cfg.JWT.Secret) < 32 {
		return fmt.Errorf("jwt secret must be at least 32 characters")
	}

	if cfg.UsesPostgres() {
		if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
			return fmt.Errorf("database host, user and dbname are required for the postgres driver")
		}
	}

	if cfg.UsesRedis() && cfg.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required when a redis backend is configured")
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with '/': %q", cfg.Metrics.Path)
	}

	return nil
}
