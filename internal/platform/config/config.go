package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends selectable with STORE_BACKEND.
const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string `validate:"required_if=StoreBackend postgres"`
	DBMaxConns    int32  `validate:"min=1"`
	Port          string `validate:"required,numeric"`
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string // Empty disables authentication on /api/v1
	LogLevel      string `validate:"oneof=debug info warn error"`

	StoreBackend   string `validate:"oneof=postgres memory"`
	MigrationsPath string `validate:"required_if=StoreBackend postgres"`

	// Reconciliation
	TransferWindowDays int    `validate:"min=0,max=31"`
	PreserveOverrides  bool   // Re-apply human inclusion decisions to re-detected pairs
	ReconcileRateLimit string `validate:"required"` // ulule/limiter format, e.g. "10-M"

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	return Load(v)
}

// Load reads configuration from v, applying defaults and validating the result.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		DBMaxConns:         v.GetInt32("PGSQL_MAX_CONNS"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		StoreBackend:       strings.ToLower(v.GetString("STORE_BACKEND")),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		TransferWindowDays: v.GetInt("TRANSFER_WINDOW_DAYS"),
		PreserveOverrides:  v.GetBool("RECONCILE_PRESERVE_OVERRIDES"),
		ReconcileRateLimit: v.GetString("RECONCILE_RATE_LIMIT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("invalid configuration: JWT_SECRET is required in production")
		}
		slog.Warn("JWT_SECRET not set, API authentication is disabled")
	}
	if cfg.StoreBackend == StoreBackendMemory {
		slog.Warn("Using in-memory store, data is lost on exit")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PGSQL_MAX_CONNS", 10)
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", StoreBackendPostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("TRANSFER_WINDOW_DAYS", 4)
	v.SetDefault("RECONCILE_PRESERVE_OVERRIDES", true)
	v.SetDefault("RECONCILE_RATE_LIMIT", "10-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
