package config

import "time"

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds the application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Session     SessionConfig     `mapstructure:"session"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Products    ProductsConfig    `mapstructure:"products"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
	// RequestTimeout bounds every request context
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gt=0,lte=65535"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode" validate:"oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout" validate:"gt=0"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
	ConnectAttempts int           `mapstructure:"connect_attempts" validate:"gte=1"`
}

// StorageConfig selects the backend for users and products
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=memory postgres"`
}

// SessionConfig holds session store configuration
type SessionConfig struct {
	Store         string        `mapstructure:"store" validate:"oneof=memory redis"`
	TTL           time.Duration `mapstructure:"ttl" validate:"gt=0"`
	PurgeSchedule string        `mapstructure:"purge_schedule"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db" validate:"gte=0"`
	PoolSize     int           `mapstructure:"pool_size" validate:"gte=1"`
	MinIdleConns int           `mapstructure:"min_idle_conns" validate:"gte=0"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" validate:"gte=0"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	TLS          bool          `mapstructure:"tls"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

// ProductsConfig holds the product routes policy.
//
// RequireAuth selects between the public product routes (false, the default)
// and the auth-gated variant. Both variants expose the same paths and verbs.
type ProductsConfig struct {
	RequireAuth bool `mapstructure:"require_auth"`
}

// RateLimitConfig configures the limiter in front of the credential endpoints
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests" validate:"gte=1"`
	Window   time.Duration `mapstructure:"window" validate:"gt=0"`
	Storage  string        `mapstructure:"storage" validate:"oneof=memory redis"`
	FailOpen bool          `mapstructure:"fail_open"`
}

// IdempotencyConfig configures Idempotency-Key handling on product creation
type IdempotencyConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" validate:"gt=0"`
	Storage string        `mapstructure:"storage" validate:"oneof=memory redis"`
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// UsesRedis reports whether any component is configured with the Redis backend
func (c *Config) UsesRedis() bool {
	return c.Session.Store == DriverRedis ||
		(c.RateLimit.Enabled && c.RateLimit.Storage == DriverRedis) ||
		(c.Idempotency.Enabled && c.Idempotency.Storage == DriverRedis)
}

// UsesPostgres reports whether users and products are stored in PostgreSQL
func (c *Config) UsesPostgres() bool {
	return c.Storage.Driver == DriverPostgres
}
