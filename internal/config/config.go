// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development, with one
// exception: the session signing secret has no default and the process
// refuses to start without it.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// CORSOrigins is the list of origins allowed to make credentialed
	// cross-origin requests (the Vite dev server and the deployed frontend).
	CORSOrigins []string

	// Database holds MariaDB connection settings.
	Database DatabaseConfig

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// Auth holds authentication-related settings.
	Auth AuthConfig
}

// DatabaseConfig holds MariaDB connection parameters. Individual fields
// (Host, User, Password, Name) are read from separate env vars so container
// orchestrators can manage each independently. If DATABASE_URL is set, it
// takes precedence over the individual fields.
type DatabaseConfig struct {
	// Host is the MariaDB address in host:port format (default: "localhost:3306").
	// If no port is specified, 3306 is appended automatically.
	Host string

	// User is the MariaDB username (default: "registrar").
	User string

	// Password is the MariaDB password (default: "registrar").
	Password string

	// Name is the database name (default: "registrar").
	Name string

	// dsnOverride is set when DATABASE_URL is provided, bypassing individual fields.
	dsnOverride string

	// MaxOpenConns is the maximum number of open connections in the pool.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int

	// ConnMaxLifetime is how long a connection can be reused.
	ConnMaxLifetime time.Duration
}

// DSN returns the go-sql-driver/mysql connection string. If DATABASE_URL was
// set, it is returned as-is. Otherwise the DSN is built from the individual
// Host/User/Password/Name fields using the driver's Config.FormatDSN()
// to safely handle special characters in passwords.
func (d DatabaseConfig) DSN() string {
	if d.dsnOverride != "" {
		return d.dsnOverride
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	// Report matched rows instead of changed rows for UPDATEs. The
	// repositories map RowsAffected()==0 to NotFound; without this flag a
	// no-op write against an existing row (resubmitting identical data,
	// disabling an already-disabled account) would 404.
	cfg.ClientFoundRows = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
// Allows users to set DB_HOST=mydb (gets :3306) or DB_HOST=mydb:3307 (as-is).
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// SessionSecret is the HMAC key used to sign session tokens.
	// Required in every environment; Load fails when it is missing or
	// shorter than 32 bytes. There is deliberately no development
	// fallback: a guessable signing key makes every session forgeable.
	SessionSecret string

	// SessionTTL is how long an issued session token stays valid.
	// Tokens are self-contained and cannot be revoked server-side, so
	// this stays short (default: 15 minutes).
	SessionTTL time.Duration
}

// minSecretLen is the minimum accepted SESSION_SECRET length in bytes.
// 32 bytes matches the HS256 key-size recommendation.
const minSecretLen = 32

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if required variables are missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost:3306"),
			User:            getEnv("DB_USER", "registrar"),
			Password:        getEnv("DB_PASSWORD", "registrar"),
			Name:            getEnv("DB_NAME", "registrar"),
			dsnOverride:     getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Auth: AuthConfig{
			SessionSecret: getEnv("SESSION_SECRET", ""),
			SessionTTL:    getEnvDuration("SESSION_TTL", 15*time.Minute),
		},
	}

	if cfg.Auth.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if len(cfg.Auth.SessionSecret) < minSecretLen {
		return nil, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSecretLen)
	}
	if cfg.Auth.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// splitCSV splits a comma-separated env value into trimmed, non-empty parts.
func splitCSV(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "15m") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
