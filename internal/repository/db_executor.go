// internal/repository/db_executor.go
package repository

import (
	"context"
	"database/sql"
)

// DBExecutor is the query surface shared by *sqlx.DB and *sqlx.Tx. Stores
// accept it so the same method runs inside a service transaction or as a
// standalone read.
type DBExecutor interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	// Rebind rewrites ? placeholders into the bind style of the driver
	// (e.g. $1 for PostgreSQL).
	Rebind(query string) string
}
