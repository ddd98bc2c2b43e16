// pkg/db/schema.go
package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                    BIGINT PRIMARY KEY,
		display_name          TEXT NOT NULL DEFAULT '',
		handle                TEXT NOT NULL DEFAULT '',
		balance_cents         BIGINT NOT NULL DEFAULT 0 CHECK (balance_cents >= 0),
		last_bonus_claimed_at TIMESTAMPTZ,
		referral_code         TEXT NOT NULL UNIQUE,
		referred_by           BIGINT REFERENCES users (id),
		created_at            TIMESTAMPTZ NOT NULL,
		updated_at            TIMESTAMPTZ NOT NULL,
		CHECK (referred_by IS NULL OR referred_by <> id)
	)`,
	`CREATE TABLE IF NOT EXISTS referrals (
		id          BIGSERIAL PRIMARY KEY,
		referrer_id BIGINT NOT NULL REFERENCES users (id),
		referred_id BIGINT NOT NULL UNIQUE REFERENCES users (id),
		created_at  TIMESTAMPTZ NOT NULL,
		CHECK (referrer_id <> referred_id)
	)`,
	`CREATE INDEX IF NOT EXISTS referrals_referrer_id_idx ON referrals (referrer_id)`,
	`CREATE TABLE IF NOT EXISTS withdrawals (
		id           TEXT PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users (id),
		item_code    TEXT NOT NULL,
		item_name    TEXT NOT NULL,
		amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
		status       TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'processing', 'fulfilled', 'rejected')),
		requested_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS withdrawals_user_id_idx ON withdrawals (user_id, requested_at)`,
	`CREATE INDEX IF NOT EXISTS withdrawals_status_idx ON withdrawals (status)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                    INTEGER PRIMARY KEY,
		display_name          TEXT NOT NULL DEFAULT '',
		handle                TEXT NOT NULL DEFAULT '',
		balance_cents         INTEGER NOT NULL DEFAULT 0 CHECK (balance_cents >= 0),
		last_bonus_claimed_at TEXT,
		referral_code         TEXT NOT NULL UNIQUE,
		referred_by           INTEGER REFERENCES users (id),
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL,
		CHECK (referred_by IS NULL OR referred_by <> id)
	)`,
	`CREATE TABLE IF NOT EXISTS referrals (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		referrer_id INTEGER NOT NULL REFERENCES users (id),
		referred_id INTEGER NOT NULL UNIQUE REFERENCES users (id),
		created_at  TEXT NOT NULL,
		CHECK (referrer_id <> referred_id)
	)`,
	`CREATE INDEX IF NOT EXISTS referrals_referrer_id_idx ON referrals (referrer_id)`,
	`CREATE TABLE IF NOT EXISTS withdrawals (
		id           TEXT PRIMARY KEY,
		user_id      INTEGER NOT NULL REFERENCES users (id),
		item_code    TEXT NOT NULL,
		item_name    TEXT NOT NULL,
		amount_cents INTEGER NOT NULL CHECK (amount_cents > 0),
		status       TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'processing', 'fulfilled', 'rejected')),
		requested_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS withdrawals_user_id_idx ON withdrawals (user_id, requested_at)`,
	`CREATE INDEX IF NOT EXISTS withdrawals_status_idx ON withdrawals (status)`,
}

// Migrate creates the ledger tables for the connected driver if they do not
// exist yet.
func Migrate(ctx context.Context, database *sqlx.DB) error {
	var stmts []string
	switch database.DriverName() {
	case DriverPostgres:
		stmts = postgresSchema
	case DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("no schema for driver %q", database.DriverName())
	}

	for _, stmt := range stmts {
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
