// internal/service/ledger_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/repository"
	"rewards-ledger/internal/util"
)

// LedgerService covers user registration and the read-only queries.
type LedgerService interface {
	// GetOrCreate registers a user on first contact and otherwise refreshes
	// the display fields only. The bool reports whether the user was created.
	GetOrCreate(ctx context.Context, userID int64, displayName, handle string) (*domain.User, bool, error)
	// GetUser returns util.ErrUserNotFound for unknown users.
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	GetReferralCount(ctx context.Context, userID int64) (int64, error)
	GetStats(ctx context.Context) (*domain.Stats, error)
	ListWithdrawals(ctx context.Context, userID int64, limit, offset int) ([]domain.WithdrawalRequest, int64, error)
}

type ledgerService struct {
	txRunner
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(deps Deps) LedgerService {
	return &ledgerService{txRunner: newTxRunner(deps)}
}

func (s *ledgerService) GetOrCreate(ctx context.Context, userID int64, displayName, handle string) (*domain.User, bool, error) {
	start := time.Now()
	if userID <= 0 {
		return nil, false, fmt.Errorf("get or create: %w: user id must be positive", util.ErrInvalidInput)
	}

	var (
		user    *domain.User
		created bool
	)
	err := s.inTx(ctx, opGetOrCreate, func(q repository.DBExecutor) error {
		var err error
		created, err = s.Users.InsertUserIfAbsent(ctx, q, domain.NewUser(userID, displayName, handle))
		if err != nil {
			return err
		}
		if !created {
			if err := s.Users.UpdateUserProfile(ctx, q, userID, displayName, handle, time.Now()); err != nil {
				return err
			}
		}
		user, err = s.Users.GetUserByID(ctx, q, userID)
		return err
	})
	label := "existing"
	if created {
		label = "created"
	}
	s.observe(ctx, opGetOrCreate, start, label, err)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.Logger.InfoContext(ctx, "User registered", "user_id", userID)
	}
	return user, created, nil
}

func (s *ledgerService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.Users.GetUserByID(ctx, s.DBExecutor, userID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w: %w", userID, util.ErrUnavailable, err)
	}
	return user, nil
}

func (s *ledgerService) GetReferralCount(ctx context.Context, userID int64) (int64, error) {
	count, err := s.Referrals.CountByReferrer(ctx, s.DBExecutor, userID)
	if err != nil {
		return 0, fmt.Errorf("get referral count: %w: %w", util.ErrUnavailable, err)
	}
	return count, nil
}

func (s *ledgerService) GetStats(ctx context.Context) (*domain.Stats, error) {
	totalUsers, err := s.Users.CountUsers(ctx, s.DBExecutor)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w: %w", util.ErrUnavailable, err)
	}
	totalBalance, err := s.Users.SumBalances(ctx, s.DBExecutor)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w: %w", util.ErrUnavailable, err)
	}
	pending, err := s.Withdrawals.CountWithdrawalsByStatus(ctx, s.DBExecutor, domain.WithdrawalStatusPending)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w: %w", util.ErrUnavailable, err)
	}
	return &domain.Stats{
		TotalUsers:         totalUsers,
		TotalBalance:       totalBalance,
		PendingWithdrawals: pending,
	}, nil
}

// ListWithdrawals retrieves a paginated list of the user's withdrawal requests.
func (s *ledgerService) ListWithdrawals(ctx context.Context, userID int64, limit, offset int) ([]domain.WithdrawalRequest, int64, error) {
	if limit <= 0 || offset < 0 {
		return nil, 0, util.ErrInvalidInput
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, 0, err
	}
	requests, total, err := s.Withdrawals.GetWithdrawalsByUserID(ctx, s.DBExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve withdrawal history: %w: %w", util.ErrUnavailable, err)
	}
	return requests, total, nil
}
