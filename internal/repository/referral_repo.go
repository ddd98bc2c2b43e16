// internal/repository/referral_repo.go
package repository

import (
	"context"

	"rewards-ledger/internal/domain"
)

// ReferralRepository defines the interface for referral edge operations.
type ReferralRepository interface {
	// InsertReferralIfAbsent inserts the edge unless one already exists for
	// referral.ReferredID. Uniqueness is enforced by the store, so exactly one
	// of several concurrent callers reports true.
	InsertReferralIfAbsent(ctx context.Context, q DBExecutor, referral *domain.Referral) (bool, error)
	// CountByReferrer returns how many users referrerID has referred.
	CountByReferrer(ctx context.Context, q DBExecutor, referrerID int64) (int64, error)
}
