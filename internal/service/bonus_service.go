// internal/service/bonus_service.go
package service

import (
	"context"
	"errors"
	"time"

	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/repository"
	"rewards-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// BonusService pays the periodic bonus, at most once per domain.BonusCooldown.
type BonusService interface {
	Claim(ctx context.Context, userID int64, bonus decimal.Decimal, now time.Time) (*domain.ClaimResult, error)
}

type bonusService struct {
	txRunner
}

// NewBonusService creates a new instance of BonusService.
func NewBonusService(deps Deps) BonusService {
	return &bonusService{txRunner: newTxRunner(deps)}
}

// Claim gates on the conditional timestamp update and credits in the same
// transaction, so concurrent claims in one window credit exactly once.
func (s *bonusService) Claim(ctx context.Context, userID int64, bonus decimal.Decimal, now time.Time) (*domain.ClaimResult, error) {
	start := time.Now()
	if err := validAmount(bonus); err != nil {
		return nil, err
	}
	now = now.UTC().Truncate(time.Microsecond)

	var result *domain.ClaimResult
	err := s.inTx(ctx, opClaimBonus, func(q repository.DBExecutor) error {
		result = nil

		claimed, err := s.Users.SetLastBonusClaimedAt(ctx, q, userID, now, now.Add(-domain.BonusCooldown))
		if err != nil {
			return err
		}

		if !claimed {
			user, err := s.Users.GetUserByID(ctx, q, userID)
			if errors.Is(err, util.ErrNotFound) {
				result = &domain.ClaimResult{Outcome: domain.OutcomeUserNotFound}
				return errAbort
			}
			if err != nil {
				return err
			}
			result = &domain.ClaimResult{
				Outcome:    domain.OutcomeNotYetEligible,
				NewBalance: user.Balance,
				Remaining:  remainingCooldown(user.LastBonusClaimedAt, now),
			}
			return errAbort
		}

		if err := s.Users.Credit(ctx, q, userID, bonus); err != nil {
			return err
		}
		user, err := s.Users.GetUserByID(ctx, q, userID)
		if err != nil {
			return err
		}
		claimedAt := now
		result = &domain.ClaimResult{
			Outcome:    domain.OutcomeClaimed,
			NewBalance: user.Balance,
			ClaimedAt:  &claimedAt,
		}
		return nil
	})

	var label string
	if result != nil {
		label = string(result.Outcome)
	}
	s.observe(ctx, opClaimBonus, start, label, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func remainingCooldown(last *time.Time, now time.Time) time.Duration {
	if last == nil {
		return 0
	}
	remaining := last.Add(domain.BonusCooldown).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
