// internal/repository/sqlstore/referral_store.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/repository"
	"rewards-ledger/pkg/db"
)

// ReferralRepository implements repository.ReferralRepository.
type ReferralRepository struct{}

// NewReferralRepository creates a new ReferralRepository.
func NewReferralRepository() repository.ReferralRepository {
	return &ReferralRepository{}
}

// InsertReferralIfAbsent relies on the UNIQUE constraint on referred_id.
// A concurrent insert for the same user blocks until the first commits and
// then falls through to DO NOTHING.
func (r *ReferralRepository) InsertReferralIfAbsent(ctx context.Context, q repository.DBExecutor, referral *domain.Referral) (bool, error) {
	query := q.Rebind(`INSERT INTO referrals (referrer_id, referred_id, created_at)
              VALUES (?, ?, ?)
              ON CONFLICT (referred_id) DO NOTHING
              RETURNING id`)
	err := q.QueryRowContext(ctx, query,
		referral.ReferrerID,
		referral.ReferredID,
		db.NewTimestamp(referral.CreatedAt),
	).Scan(&referral.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create referral for user %d: %w", referral.ReferredID, err)
	}
	return true, nil
}

// CountByReferrer counts the edges whose referrer is referrerID.
func (r *ReferralRepository) CountByReferrer(ctx context.Context, q repository.DBExecutor, referrerID int64) (int64, error) {
	var count int64
	query := q.Rebind(`SELECT COUNT(*) FROM referrals WHERE referrer_id = ?`)
	if err := q.GetContext(ctx, &count, query, referrerID); err != nil {
		return 0, fmt.Errorf("failed to count referrals for user %d: %w", referrerID, err)
	}
	return count, nil
}
