// pkg/db/transaction_manager.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// TxController commits or rolls back one unit of work. *sqlx.Tx satisfies it.
type TxController interface {
	Commit() error
	Rollback() error
}

// DBTxBeginner opens transactions. *sqlx.DB satisfies it.
type DBTxBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// The transaction lifecycle is injected into services as plain functions so
// unit tests can hand out a mock controller instead of a real *sqlx.Tx.
type (
	BeginTxFunc    func(ctx context.Context, dbConn DBTxBeginner) (TxController, error)
	CommitTxFunc   func(tx TxController) error
	RollbackTxFunc func(tx TxController)
)

// BeginTx opens a transaction at the driver's default isolation level. Ledger
// mutations are single conditional statements, so read committed suffices.
func BeginTx(ctx context.Context, dbConn DBTxBeginner) (TxController, error) {
	tx, err := dbConn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// CommitTx commits tx.
func CommitTx(tx TxController) error {
	return tx.Commit()
}

// RollbackTx is meant to be deferred right after BeginTx. Rolling back a
// committed transaction returns sql.ErrTxDone, which is ignored.
func RollbackTx(tx TxController) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Default().Warn("Failed to roll back ledger transaction", "error", err)
	}
}
