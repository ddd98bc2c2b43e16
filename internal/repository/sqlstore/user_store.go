// internal/repository/sqlstore/user_store.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/repository"
	"rewards-ledger/internal/util"
	"rewards-ledger/pkg/db"

	"github.com/shopspring/decimal"
)

const userColumns = `id, display_name, handle, balance_cents, last_bonus_claimed_at, referral_code, referred_by, created_at, updated_at`

type userRow struct {
	ID                 int64            `db:"id"`
	DisplayName        string           `db:"display_name"`
	Handle             string           `db:"handle"`
	BalanceCents       int64            `db:"balance_cents"`
	LastBonusClaimedAt db.NullTimestamp `db:"last_bonus_claimed_at"`
	ReferralCode       string           `db:"referral_code"`
	ReferredBy         sql.NullInt64    `db:"referred_by"`
	CreatedAt          db.Timestamp     `db:"created_at"`
	UpdatedAt          db.Timestamp     `db:"updated_at"`
}

func (r userRow) toDomain() *domain.User {
	user := &domain.User{
		ID:                 r.ID,
		DisplayName:        r.DisplayName,
		Handle:             r.Handle,
		Balance:            domain.FromCents(r.BalanceCents),
		LastBonusClaimedAt: r.LastBonusClaimedAt.Ptr(),
		ReferralCode:       r.ReferralCode,
		CreatedAt:          r.CreatedAt.Time,
		UpdatedAt:          r.UpdatedAt.Time,
	}
	if r.ReferredBy.Valid {
		referredBy := r.ReferredBy.Int64
		user.ReferredBy = &referredBy
	}
	return user
}

// UserRepository implements repository.UserRepository on PostgreSQL and SQLite.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository.
func NewUserRepository() repository.UserRepository {
	return &UserRepository{}
}

// InsertUserIfAbsent inserts a new user row unless the ID is already taken.
func (r *UserRepository) InsertUserIfAbsent(ctx context.Context, q repository.DBExecutor, user *domain.User) (bool, error) {
	balance, err := domain.ToCents(user.Balance)
	if err != nil {
		return false, fmt.Errorf("failed to create user %d: %w", user.ID, err)
	}
	query := q.Rebind(`INSERT INTO users (id, display_name, handle, balance_cents, referral_code, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)
              ON CONFLICT (id) DO NOTHING`)
	result, err := q.ExecContext(ctx, query,
		user.ID,
		user.DisplayName,
		user.Handle,
		balance,
		user.ReferralCode,
		db.NewTimestamp(user.CreatedAt),
		db.NewTimestamp(user.UpdatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("failed to create user %d: %w", user.ID, err)
	}
	return affectedOne(result, "create user", user.ID)
}

// UpdateUserProfile refreshes display_name and handle.
func (r *UserRepository) UpdateUserProfile(ctx context.Context, q repository.DBExecutor, id int64, displayName, handle string, at time.Time) error {
	query := q.Rebind(`UPDATE users SET display_name = ?, handle = ?, updated_at = ? WHERE id = ?`)
	result, err := q.ExecContext(ctx, query, displayName, handle, db.NewTimestamp(at), id)
	if err != nil {
		return fmt.Errorf("failed to update profile for user %d: %w", id, err)
	}
	updated, err := affectedOne(result, "update profile", id)
	if err != nil {
		return err
	}
	if !updated {
		return util.ErrNotFound
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var row userRow
	query := q.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := q.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return row.toDomain(), nil
}

// GetUserByReferralCode retrieves the user owning code.
func (r *UserRepository) GetUserByReferralCode(ctx context.Context, q repository.DBExecutor, code string) (*domain.User, error) {
	var row userRow
	query := q.Rebind(`SELECT ` + userColumns + ` FROM users WHERE referral_code = ?`)
	if err := q.GetContext(ctx, &row, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by referral code '%s': %w", code, err)
	}
	return row.toDomain(), nil
}

// Credit adds amount to the user's balance. A credit that would push the
// balance past the int64 cents range is rejected as invalid input.
func (r *UserRepository) Credit(ctx context.Context, q repository.DBExecutor, id int64, amount decimal.Decimal) error {
	cents, err := domain.PositiveCents(amount)
	if err != nil {
		return fmt.Errorf("credit user %d: %w: %v", id, util.ErrInvalidInput, err)
	}
	query := q.Rebind(`UPDATE users SET balance_cents = balance_cents + ?, updated_at = ?
              WHERE id = ? AND balance_cents <= ?`)
	result, err := q.ExecContext(ctx, query, cents, db.NewTimestamp(time.Now()), id, math.MaxInt64-cents)
	if err != nil {
		return fmt.Errorf("failed to credit user %d: %w", id, err)
	}
	updated, err := affectedOne(result, "credit", id)
	if err != nil {
		return err
	}
	if updated {
		return nil
	}

	exists, err := r.exists(ctx, q, id)
	if err != nil {
		return err
	}
	if !exists {
		return util.ErrNotFound
	}
	return fmt.Errorf("credit user %d: %w: balance would overflow", id, util.ErrInvalidInput)
}

// TryDebit subtracts amount only when the balance covers it. The check and
// the update are one statement, so concurrent debits cannot overdraw.
func (r *UserRepository) TryDebit(ctx context.Context, q repository.DBExecutor, id int64, amount decimal.Decimal) error {
	cents, err := domain.PositiveCents(amount)
	if err != nil {
		return fmt.Errorf("debit user %d: %w: %v", id, util.ErrInvalidInput, err)
	}
	query := q.Rebind(`UPDATE users SET balance_cents = balance_cents - ?, updated_at = ?
              WHERE id = ? AND balance_cents >= ?`)
	result, err := q.ExecContext(ctx, query, cents, db.NewTimestamp(time.Now()), id, cents)
	if err != nil {
		return fmt.Errorf("failed to debit user %d: %w", id, err)
	}
	updated, err := affectedOne(result, "debit", id)
	if err != nil {
		return err
	}
	if updated {
		return nil
	}

	exists, err := r.exists(ctx, q, id)
	if err != nil {
		return err
	}
	if !exists {
		return util.ErrNotFound
	}
	return util.ErrInsufficientFunds
}

// SetLastBonusClaimedAt is the cooldown gate: the timestamp is written only
// if the previous claim is old enough, in a single statement.
func (r *UserRepository) SetLastBonusClaimedAt(ctx context.Context, q repository.DBExecutor, id int64, at, notAfter time.Time) (bool, error) {
	query := q.Rebind(`UPDATE users SET last_bonus_claimed_at = ?, updated_at = ?
              WHERE id = ? AND (last_bonus_claimed_at IS NULL OR last_bonus_claimed_at <= ?)`)
	result, err := q.ExecContext(ctx, query, db.NewTimestamp(at), db.NewTimestamp(time.Now()), id, db.NewTimestamp(notAfter))
	if err != nil {
		return false, fmt.Errorf("failed to set last bonus claim for user %d: %w", id, err)
	}
	return affectedOne(result, "set last bonus claim", id)
}

// LinkReferrer records referrerID as the user's referrer if none is set.
func (r *UserRepository) LinkReferrer(ctx context.Context, q repository.DBExecutor, id, referrerID int64) (bool, error) {
	query := q.Rebind(`UPDATE users SET referred_by = ?, updated_at = ? WHERE id = ? AND referred_by IS NULL`)
	result, err := q.ExecContext(ctx, query, referrerID, db.NewTimestamp(time.Now()), id)
	if err != nil {
		return false, fmt.Errorf("failed to link referrer %d to user %d: %w", referrerID, id, err)
	}
	return affectedOne(result, "link referrer", id)
}

// ListUserIDs returns all user IDs.
func (r *UserRepository) ListUserIDs(ctx context.Context, q repository.DBExecutor) ([]int64, error) {
	ids := []int64{}
	if err := q.SelectContext(ctx, &ids, `SELECT id FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list user IDs: %w", err)
	}
	return ids, nil
}

// CountUsers returns the number of user rows.
func (r *UserRepository) CountUsers(ctx context.Context, q repository.DBExecutor) (int64, error) {
	var count int64
	if err := q.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// SumBalances returns the total of all balances.
func (r *UserRepository) SumBalances(ctx context.Context, q repository.DBExecutor) (decimal.Decimal, error) {
	var cents int64
	if err := q.GetContext(ctx, &cents, `SELECT CAST(COALESCE(SUM(balance_cents), 0) AS BIGINT) FROM users`); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum balances: %w", err)
	}
	return domain.FromCents(cents), nil
}

func (r *UserRepository) exists(ctx context.Context, q repository.DBExecutor, id int64) (bool, error) {
	var count int64
	if err := q.GetContext(ctx, &count, q.Rebind(`SELECT COUNT(*) FROM users WHERE id = ?`), id); err != nil {
		return false, fmt.Errorf("failed to check user %d: %w", id, err)
	}
	return count > 0, nil
}

// affectedOne reports whether a single-row statement changed its row.
func affectedOne(result sql.Result, op string, id interface{}) (bool, error) {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected after %s for %v: %w", op, id, err)
	}
	return rowsAffected > 0, nil
}
