// internal/repository/withdrawal_repo.go
package repository

import (
	"context"

	"rewards-ledger/internal/domain"
)

// WithdrawalRepository defines the interface for withdrawal request operations.
type WithdrawalRepository interface {
	// CreateWithdrawal adds a new withdrawal request.
	CreateWithdrawal(ctx context.Context, q DBExecutor, request *domain.WithdrawalRequest) error
	// GetWithdrawalsByUserID returns a page of the user's requests, newest
	// first, together with the total count.
	GetWithdrawalsByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.WithdrawalRequest, int64, error)
	// CountWithdrawalsByStatus returns how many requests are in status.
	CountWithdrawalsByStatus(ctx context.Context, q DBExecutor, status domain.WithdrawalStatus) (int64, error)
}
