package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverPgsql = "pgsql"
	DriverBolt  = "bolt"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	StoreDriver   string
	DatabaseURL   string
	EnableDBCheck bool
	BoltPath      string
	MigrationsURL string // golang-migrate source, e.g. file://migrations
	ChartSeedPath string // empty: embedded default chart

	ApprovalPolicy string

	JWTSecret string
	JWTIssuer string

	RateLimit          string // ulule/limiter formatted rate, e.g. 100-M
	CORSAllowedOrigins []string
	LogLevel           slog.Level
}

// LoadConfig loads configuration from environment variables and a .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORE_DRIVER", DriverBolt)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("BOLT_PATH", "data/treasury.db")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("CHART_SEED_PATH", "")
	v.SetDefault("APPROVAL_POLICY", domain.PolicyThreeStep)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "masjid-treasury")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		StoreDriver:    strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL:    v.GetString("PGSQL_URL"),
		EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		BoltPath:       v.GetString("BOLT_PATH"),
		MigrationsURL:  v.GetString("MIGRATIONS_PATH"),
		ChartSeedPath:  v.GetString("CHART_SEED_PATH"),
		ApprovalPolicy: v.GetString("APPROVAL_POLICY"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTIssuer:      v.GetString("JWT_ISSUER"),
		RateLimit:      v.GetString("RATE_LIMIT"),
	}
	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == defaultJWTSecret {
		slog.Warn("JWT_SECRET not set, using default insecure key")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverPgsql:
		if c.DatabaseURL == "" {
			return errors.New("PGSQL_URL is required when STORE_DRIVER is pgsql")
		}
	case DriverBolt:
		if c.BoltPath == "" {
			return errors.New("BOLT_PATH is required when STORE_DRIVER is bolt")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.StoreDriver, DriverPgsql, DriverBolt)
	}
	if _, err := domain.PolicyByName(c.ApprovalPolicy); err != nil {
		return fmt.Errorf("invalid APPROVAL_POLICY: %w", err)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.IsProduction && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}
