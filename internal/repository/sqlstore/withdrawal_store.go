// internal/repository/sqlstore/withdrawal_store.go
package sqlstore

import (
	"context"
	"fmt"

	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/repository"
	"rewards-ledger/pkg/db"
)

type withdrawalRow struct {
	ID          string       `db:"id"`
	UserID      int64        `db:"user_id"`
	ItemCode    string       `db:"item_code"`
	ItemName    string       `db:"item_name"`
	AmountCents int64        `db:"amount_cents"`
	Status      string       `db:"status"`
	RequestedAt db.Timestamp `db:"requested_at"`
}

func (r withdrawalRow) toDomain() domain.WithdrawalRequest {
	return domain.WithdrawalRequest{
		ID:          r.ID,
		UserID:      r.UserID,
		ItemCode:    r.ItemCode,
		ItemName:    r.ItemName,
		Amount:      domain.FromCents(r.AmountCents),
		Status:      domain.WithdrawalStatus(r.Status),
		RequestedAt: r.RequestedAt.Time,
	}
}

// WithdrawalRepository implements repository.WithdrawalRepository.
type WithdrawalRepository struct{}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository() repository.WithdrawalRepository {
	return &WithdrawalRepository{}
}

// CreateWithdrawal inserts a new withdrawal request using the provided DBExecutor.
func (r *WithdrawalRepository) CreateWithdrawal(ctx context.Context, q repository.DBExecutor, request *domain.WithdrawalRequest) error {
	amount, err := domain.PositiveCents(request.Amount)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	query := q.Rebind(`INSERT INTO withdrawals (id, user_id, item_code, item_name, amount_cents, status, requested_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err = q.ExecContext(ctx, query,
		request.ID,
		request.UserID,
		request.ItemCode,
		request.ItemName,
		amount,
		string(request.Status),
		db.NewTimestamp(request.RequestedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal for user %d: %w", request.UserID, err)
	}
	return nil
}

// GetWithdrawalsByUserID retrieves a paginated list of requests for a user.
// It performs two queries: one for the data and one for the total count.
func (r *WithdrawalRepository) GetWithdrawalsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.WithdrawalRequest, int64, error) {
	rows := []withdrawalRow{}
	query := q.Rebind(`
		SELECT id, user_id, item_code, item_name, amount_cents, status, requested_at
		FROM withdrawals
		WHERE user_id = ?
		ORDER BY requested_at DESC, id DESC
		LIMIT ? OFFSET ?`)
	if err := q.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch withdrawals for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := q.Rebind(`SELECT COUNT(*) FROM withdrawals WHERE user_id = ?`)
	if err := q.GetContext(ctx, &totalCount, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to get total withdrawal count for user %d: %w", userID, err)
	}

	requests := make([]domain.WithdrawalRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toDomain())
	}
	return requests, totalCount, nil
}

// CountWithdrawalsByStatus counts requests in the given status.
func (r *WithdrawalRepository) CountWithdrawalsByStatus(ctx context.Context, q repository.DBExecutor, status domain.WithdrawalStatus) (int64, error) {
	var count int64
	query := q.Rebind(`SELECT COUNT(*) FROM withdrawals WHERE status = ?`)
	if err := q.GetContext(ctx, &count, query, string(status)); err != nil {
		return 0, fmt.Errorf("failed to count %s withdrawals: %w", status, err)
	}
	return count, nil
}
