// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"

	"rewards-ledger/pkg/db"
)

// NewSQLite returns a migrated SQLite database stored in t's temp dir.
// It is closed when the test finishes.
func NewSQLite(t testing.TB) *sqlx.DB {
	t.Helper()
	return NewSQLiteConns(t, 1)
}

// NewSQLiteConns is NewSQLite with a pool of conns connections, so
// transactions from different goroutines really overlap.
func NewSQLiteConns(t testing.TB, conns int) *sqlx.DB {
	t.Helper()

	database, err := db.Open(db.Config{
		Driver:       db.DriverSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "ledger.db"),
		MaxOpenConns: conns,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := db.Migrate(context.Background(), database); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return database
}

// NewPostgres connects to the test database described by the DB_* variables
// and empties every ledger table. The test is skipped when DB_HOST is unset.
func NewPostgres(t testing.TB) *sqlx.DB {
	t.Helper()

	host := os.Getenv("DB_HOST")
	if host == "" {
		t.Skip("DB_HOST not set, skipping PostgreSQL test")
	}
	port, err := strconv.Atoi(envOr("DB_PORT", "5432"))
	if err != nil {
		t.Fatalf("invalid DB_PORT: %v", err)
	}

	database, err := db.Open(db.Config{
		Driver:   db.DriverPostgres,
		Host:     host,
		Port:     port,
		User:     envOr("DB_USER", "user"),
		Password: envOr("DB_PASSWORD", "password"),
		DBName:   envOr("DB_NAME", "rewardsdb_test"),
		SSLMode:  envOr("DB_SSLMODE", "disable"),
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	ctx := context.Background()
	if err := db.Migrate(ctx, database); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}
	if _, err := database.ExecContext(ctx, `TRUNCATE withdrawals, referrals, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate postgres: %v", err)
	}
	return database
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
