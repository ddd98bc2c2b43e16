// internal/service/admin_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/repository"
	"rewards-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// DefaultCreditTimeout bounds how long a bulk credit waits on one user row.
const DefaultCreditTimeout = 5 * time.Second

// AdminService holds operator-initiated credits. They are trusted: no
// ceiling and no cooldown.
type AdminService interface {
	CreditUser(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.CreditResult, error)
	// CreditAll credits every known user, each in its own transaction, and
	// reports per-user success or failure.
	CreditAll(ctx context.Context, amount decimal.Decimal) (*domain.CreditReport, error)
}

type adminService struct {
	txRunner
	creditTimeout time.Duration
}

// NewAdminService creates a new instance of AdminService. creditTimeout
// limits each per-user credit of CreditAll; zero selects DefaultCreditTimeout.
func NewAdminService(deps Deps, creditTimeout time.Duration) AdminService {
	if creditTimeout <= 0 {
		creditTimeout = DefaultCreditTimeout
	}
	return &adminService{txRunner: newTxRunner(deps), creditTimeout: creditTimeout}
}

func (s *adminService) CreditUser(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.CreditResult, error) {
	start := time.Now()
	if err := validAmount(amount); err != nil {
		return nil, err
	}
	result, err := s.credit(ctx, userID, amount)

	var label string
	if result != nil {
		label = string(result.Outcome)
	}
	s.observe(ctx, opCreditUser, start, label, err)
	if err != nil {
		return nil, err
	}
	if result.Outcome == domain.OutcomeCredited {
		s.Logger.InfoContext(ctx, "Admin credit applied", "user_id", userID, "amount", amount.StringFixed(2))
	}
	return result, nil
}

// CreditAll never holds one transaction across users, so a slow or locked
// row only fails that user.
func (s *adminService) CreditAll(ctx context.Context, amount decimal.Decimal) (*domain.CreditReport, error) {
	start := time.Now()
	if err := validAmount(amount); err != nil {
		return nil, err
	}

	ids, err := s.Users.ListUserIDs(ctx, s.DBExecutor)
	if err != nil {
		s.observe(ctx, opCreditAll, start, "", err)
		return nil, fmt.Errorf("credit all: %w: %w", util.ErrUnavailable, err)
	}

	report := &domain.CreditReport{
		Amount:    amount,
		Succeeded: make([]int64, 0, len(ids)),
		Failed:    []domain.CreditFailure{},
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			report.Failed = append(report.Failed, domain.CreditFailure{UserID: id, Reason: ctx.Err().Error()})
			continue
		}

		userCtx, cancel := context.WithTimeout(ctx, s.creditTimeout)
		result, err := s.credit(userCtx, id, amount)
		cancel()

		switch {
		case err != nil:
			report.Failed = append(report.Failed, domain.CreditFailure{UserID: id, Reason: err.Error()})
		case result.Outcome != domain.OutcomeCredited:
			report.Failed = append(report.Failed, domain.CreditFailure{UserID: id, Reason: string(result.Outcome)})
		default:
			report.Succeeded = append(report.Succeeded, id)
		}
	}

	s.observe(ctx, opCreditAll, start, "completed", nil)
	s.Logger.InfoContext(ctx, "Bulk credit finished",
		"amount", amount.StringFixed(2),
		"succeeded", len(report.Succeeded),
		"failed", len(report.Failed),
	)
	return report, nil
}

func (s *adminService) credit(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.CreditResult, error) {
	var result *domain.CreditResult
	err := s.inTx(ctx, opCreditUser, func(q repository.DBExecutor) error {
		result = nil

		err := s.Users.Credit(ctx, q, userID, amount)
		if errors.Is(err, util.ErrNotFound) {
			result = &domain.CreditResult{Outcome: domain.OutcomeUserNotFound}
			return errAbort
		}
		if err != nil {
			return err
		}
		user, err := s.Users.GetUserByID(ctx, q, userID)
		if err != nil {
			return err
		}
		result = &domain.CreditResult{Outcome: domain.OutcomeCredited, NewBalance: user.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
