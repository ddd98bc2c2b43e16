// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"rewards-ledger/internal/catalog"
	"rewards-ledger/internal/domain"
	"rewards-ledger/pkg/db" // Import db package for its Config struct

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort  string
	DB          db.Config
	AutoMigrate bool

	DailyBonus    decimal.Decimal
	ReferralBonus decimal.Decimal
	Catalog       *catalog.Catalog

	// AdminToken guards the /admin routes. Empty disables them.
	AdminToken    string
	CreditTimeout time.Duration
	Retry         db.RetryPolicy

	RateLimitPerMinute int
	RateLimitBurst     int

	LogLevel string
	LogFile  string
}

// LoadConfig loads configuration from environment variables, reading a
// .env file in the working directory first when one exists.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &AppConfig{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		AdminToken: os.Getenv("ADMIN_TOKEN"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFile:    os.Getenv("LOG_FILE"),
	}

	var err error
	if cfg.DB, err = loadDBConfig(); err != nil {
		return nil, err
	}
	if cfg.AutoMigrate, err = getBool("DB_AUTO_MIGRATE", true); err != nil {
		return nil, err
	}

	if cfg.DailyBonus, err = getAmount("DAILY_BONUS_AMOUNT", "0.30"); err != nil {
		return nil, err
	}
	if cfg.ReferralBonus, err = getAmount("REFERRAL_BONUS_AMOUNT", "0.30"); err != nil {
		return nil, err
	}

	cfg.Catalog = catalog.Default()
	if path := os.Getenv("CATALOG_FILE"); path != "" {
		if cfg.Catalog, err = catalog.LoadFile(path); err != nil {
			return nil, fmt.Errorf("invalid CATALOG_FILE: %w", err)
		}
	}

	if cfg.CreditTimeout, err = getDuration("ADMIN_CREDIT_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	cfg.Retry = db.DefaultRetryPolicy()
	if cfg.Retry.MaxAttempts, err = getPositiveInt("TX_MAX_RETRIES", cfg.Retry.MaxAttempts); err != nil {
		return nil, err
	}

	if cfg.RateLimitPerMinute, err = getPositiveInt("RATE_LIMIT_RPM", 120); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getPositiveInt("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadDBConfig() (db.Config, error) {
	driver := strings.ToLower(getEnv("DB_DRIVER", db.DriverPostgres))
	if driver != db.DriverPostgres && driver != db.DriverSQLite {
		return db.Config{}, fmt.Errorf("invalid DB_DRIVER %q: want %s or %s", driver, db.DriverPostgres, db.DriverSQLite)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432")) // Default PostgreSQL port
	if err != nil {
		return db.Config{}, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := getPositiveInt("DB_MAX_OPEN_CONNS", 0)
	if err != nil {
		return db.Config{}, err
	}

	return db.Config{
		Driver:     driver,
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       dbPort,
		User:       getEnv("DB_USER", "user"),
		Password:   getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "rewardsdb"),
		SSLMode:    getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "rewards.db"),

		MaxOpenConns: maxConns,
	}, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getPositiveInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return value, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return value, nil
}

func getAmount(key, fallback string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	if _, err := domain.PositiveCents(value); err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
