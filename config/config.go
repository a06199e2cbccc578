package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported DATA_SOURCE values.
const (
	SourcePostgres = "postgres"
	SourceREST     = "rest"
)

// Supported CACHE_BACKEND values.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=contractpulse
//	DATA_SOURCE=rest
//	SUPABASE_URL=https://xyz.supabase.co
//	SUPABASE_KEY=service-role-key
//	CONTRACTS_TABLE=contratos_vivo
//	CACHE_BACKEND=redis
//	REDIS_ADDR=localhost:6379
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
	Source   SourceConfig   // Where contract rows are read from
	Cache    CacheConfig    // Query cache windows and backend
	Alerts   AlertsConfig   // Dashboard alert thresholds
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string        // The TCP port the HTTP server will listen on (e.g., "8080")
	RateLimitPerMinute int           // Requests per client IP per minute
	RequestTimeout     time.Duration // Per-request context deadline
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// SourceConfig selects the contract data source.
//
// With Kind=postgres rows are read from Table in the Postgres database above.
// With Kind=rest rows are read from the hosted backend's REST endpoint
// {SupabaseURL}/rest/v1/{Table}.
type SourceConfig struct {
	Kind        string
	Table       string
	SupabaseURL string
	SupabaseKey string
	Timeout     time.Duration
}

// CacheConfig controls the query cache.
//
// Entries younger than Stale are served as-is; entries between Stale and
// Retention are served while a refresh runs in the background; older entries
// are dropped.
type CacheConfig struct {
	Backend       string
	Stale         time.Duration
	Retention     time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// AlertsConfig holds the thresholds above which dashboard alerts are raised.
type AlertsConfig struct {
	Expiring30Days     int
	AutoRenewed        int
	HighRiskPercentage float64
	CriticalContracts  int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or inconsistent, validateConfig()
//     terminates the app with a descriptive log message.
func LoadConfig() {
	setDefaults()

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
			RequestTimeout:     viper.GetDuration("REQUEST_TIMEOUT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Source: SourceConfig{
			Kind:        strings.ToLower(strings.TrimSpace(viper.GetString("DATA_SOURCE"))),
			Table:       viper.GetString("CONTRACTS_TABLE"),
			SupabaseURL: strings.TrimRight(viper.GetString("SUPABASE_URL"), "/"),
			SupabaseKey: viper.GetString("SUPABASE_KEY"),
			Timeout:     viper.GetDuration("SOURCE_TIMEOUT"),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(strings.TrimSpace(viper.GetString("CACHE_BACKEND"))),
			Stale:         viper.GetDuration("CACHE_STALE"),
			Retention:     viper.GetDuration("CACHE_RETENTION"),
			RedisAddr:     viper.GetString("REDIS_ADDR"),
			RedisPassword: viper.GetString("REDIS_PASSWORD"),
			RedisDB:       viper.GetInt("REDIS_DB"),
			KeyPrefix:     viper.GetString("CACHE_KEY_PREFIX"),
		},
		Alerts: AlertsConfig{
			Expiring30Days:     viper.GetInt("ALERT_EXPIRING_30D"),
			AutoRenewed:        viper.GetInt("ALERT_AUTO_RENEWED"),
			HighRiskPercentage: viper.GetFloat64("ALERT_HIGH_RISK_PCT"),
			CriticalContracts:  viper.GetInt("ALERT_CRITICAL"),
		},
	}

	AppConfig.Postgres.URL = DSN(AppConfig.Postgres)

	validateConfig()
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	viper.SetDefault("REQUEST_TIMEOUT", "10s")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "contractpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("DATA_SOURCE", SourcePostgres)
	viper.SetDefault("CONTRACTS_TABLE", "contratos_vivo")
	viper.SetDefault("SOURCE_TIMEOUT", "15s")

	viper.SetDefault("CACHE_BACKEND", CacheMemory)
	viper.SetDefault("CACHE_STALE", "5m")
	viper.SetDefault("CACHE_RETENTION", "10m")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_KEY_PREFIX", "contractpulse:")

	viper.SetDefault("ALERT_EXPIRING_30D", 0)
	viper.SetDefault("ALERT_AUTO_RENEWED", 5)
	viper.SetDefault("ALERT_HIGH_RISK_PCT", 5.0)
	viper.SetDefault("ALERT_CRITICAL", 10)
}

// DSN builds the PostgreSQL connection string used by database/sql.
func DSN(pg PostgresConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pg.User,
		pg.Password,
		pg.Host,
		pg.Port,
		pg.DBName,
		pg.SSLMode,
	)
}

// validateConfig terminates the application when validate reports problems.
func validateConfig() {
	if problems := validate(AppConfig); len(problems) > 0 {
		log.Fatalf("❌ Invalid configuration: %v\n", problems)
	}
}

// validate returns the names of missing or inconsistent settings.
func validate(cfg Config) []string {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if cfg.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if cfg.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if cfg.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if cfg.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if cfg.Source.Table == "" {
		missing = append(missing, "CONTRACTS_TABLE")
	}

	switch cfg.Source.Kind {
	case SourcePostgres:
	case SourceREST:
		if cfg.Source.SupabaseURL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if cfg.Source.SupabaseKey == "" {
			missing = append(missing, "SUPABASE_KEY")
		}
	default:
		missing = append(missing, "DATA_SOURCE (postgres|rest)")
	}

	switch cfg.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if cfg.Cache.RedisAddr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	default:
		missing = append(missing, "CACHE_BACKEND (memory|redis)")
	}
	if cfg.Cache.Stale <= 0 || cfg.Cache.Retention < cfg.Cache.Stale {
		missing = append(missing, "CACHE_STALE/CACHE_RETENTION (0 < stale <= retention)")
	}

	return missing
}
