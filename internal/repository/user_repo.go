// internal/repository/user_repo.go
package repository

import (
	"context"
	"time"

	"rewards-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// UserRepository is the ledger store: the only code that mutates user rows.
// Every balance change is a single conditional statement so that it is
// atomic without relying on a prior read.
type UserRepository interface {
	// InsertUserIfAbsent inserts user unless a row with the same ID exists.
	// It reports whether the row was created.
	InsertUserIfAbsent(ctx context.Context, q DBExecutor, user *domain.User) (bool, error)
	// UpdateUserProfile updates the informational display fields only.
	UpdateUserProfile(ctx context.Context, q DBExecutor, id int64, displayName, handle string, at time.Time) error
	// GetUserByID retrieves a user by ID. Returns util.ErrNotFound if absent.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByReferralCode retrieves the owner of a referral code.
	GetUserByReferralCode(ctx context.Context, q DBExecutor, code string) (*domain.User, error)
	// Credit increases the balance. Returns util.ErrNotFound if absent.
	Credit(ctx context.Context, q DBExecutor, id int64, amount decimal.Decimal) error
	// TryDebit decreases the balance only if it covers amount.
	// Returns util.ErrInsufficientFunds or util.ErrNotFound otherwise.
	TryDebit(ctx context.Context, q DBExecutor, id int64, amount decimal.Decimal) error
	// SetLastBonusClaimedAt stores at as the last claim time, but only when
	// the previous claim is NULL or not after notAfter. It reports whether
	// the row was updated.
	SetLastBonusClaimedAt(ctx context.Context, q DBExecutor, id int64, at, notAfter time.Time) (bool, error)
	// LinkReferrer sets referred_by if it is still NULL. It never overwrites
	// and reports whether the link was written.
	LinkReferrer(ctx context.Context, q DBExecutor, id, referrerID int64) (bool, error)
	// ListUserIDs returns every known user ID in ascending order.
	ListUserIDs(ctx context.Context, q DBExecutor) ([]int64, error)
	// CountUsers returns the number of users.
	CountUsers(ctx context.Context, q DBExecutor) (int64, error)
	// SumBalances returns the sum of all balances.
	SumBalances(ctx context.Context, q DBExecutor) (decimal.Decimal, error)
}
