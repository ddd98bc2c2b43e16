// internal/service/tx.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/metrics"
	"rewards-ledger/internal/repository"
	"rewards-ledger/internal/util"
	"rewards-ledger/pkg/db"

	"github.com/shopspring/decimal"
)

// Operation names used in logs and metrics.
const (
	opGetOrCreate      = "get_or_create"
	opRegisterReferral = "register_referral"
	opClaimBonus       = "claim_bonus"
	opWithdraw         = "withdraw"
	opCreditUser       = "credit_user"
	opCreditAll        = "credit_all"
)

// errAbort rolls a transaction back without reporting a failure. It is used
// when an expected outcome (e.g. insufficient funds) ends the unit of work.
var errAbort = errors.New("transaction aborted")

// Deps holds the collaborators shared by every ledger service.
type Deps struct {
	DBBeginner  db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	DBExecutor  repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	Users       repository.UserRepository
	Referrals   repository.ReferralRepository
	Withdrawals repository.WithdrawalRepository
	BeginTx     db.BeginTxFunc
	CommitTx    db.CommitTxFunc
	RollbackTx  db.RollbackTxFunc
	Retry       db.RetryPolicy
	Logger      *slog.Logger
	Metrics     *metrics.Ledger
}

type txRunner struct {
	Deps
}

func newTxRunner(deps Deps) txRunner {
	if deps.Logger == nil {
		deps.Logger = util.GetLogger()
	}
	if deps.Retry.MaxAttempts == 0 {
		deps.Retry = db.DefaultRetryPolicy()
	}
	return txRunner{Deps: deps}
}

// inTx runs fn inside one transaction and commits if fn returns nil. The
// whole transaction is replayed on retryable conflicts, so fn must not keep
// state from a previous attempt. Infrastructure failures are reported as
// util.ErrUnavailable.
func (s *txRunner) inTx(ctx context.Context, op string, fn func(q repository.DBExecutor) error) error {
	err := s.Retry.Do(ctx, func() error {
		return s.attempt(ctx, op, fn)
	}, func(err error, wait time.Duration) {
		s.Metrics.Retry(op)
		s.Logger.WarnContext(ctx, "Retrying ledger transaction", "operation", op, "wait", wait, "error", err)
	})

	switch {
	case err == nil, errors.Is(err, errAbort):
		return nil
	case errors.Is(err, util.ErrInvalidInput):
		return err
	default:
		s.Logger.ErrorContext(ctx, "Ledger transaction failed", "operation", op, "error", err)
		return fmt.Errorf("%s: %w: %w", op, util.ErrUnavailable, err)
	}
}

func (s *txRunner) attempt(ctx context.Context, op string, fn func(q repository.DBExecutor) error) error {
	txController, err := s.BeginTx(ctx, s.DBBeginner)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer s.RollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("%s: transaction controller does not implement DBExecutor", op)
	}

	if err := fn(txExecutor); err != nil {
		return err
	}

	if err := s.CommitTx(txController); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}

// observe records the operation in metrics and logs expected outcomes at
// debug level.
func (s *txRunner) observe(ctx context.Context, op string, start time.Time, label string, err error) {
	if err != nil {
		label = "error"
	}
	s.Metrics.Observe(op, label, time.Since(start))
	if err == nil {
		s.Logger.DebugContext(ctx, "Ledger operation", "operation", op, "outcome", label)
	}
}

// validAmount rejects non-positive amounts and amounts finer than cents.
func validAmount(amount decimal.Decimal) error {
	if _, err := domain.PositiveCents(amount); err != nil {
		return fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
	}
	return nil
}
