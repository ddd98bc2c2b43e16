// pkg/db/db.go
package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds database connection configuration.
type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	// SQLitePath is the database file used when Driver is DriverSQLite.
	SQLitePath string

	// MaxOpenConns caps the pool. Zero picks the driver default: 25 for
	// Postgres, 1 for SQLite.
	MaxOpenConns int
}

// Open connects to the database selected by cfg.Driver.
func Open(cfg Config) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return NewPostgresDB(cfg)
	case DriverSQLite:
		return NewSQLiteDB(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
