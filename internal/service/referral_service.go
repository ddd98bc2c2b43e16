// internal/service/referral_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/repository"
	"rewards-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// ReferralService converts a referral code presented by a new user into a
// one-time credit for the code's owner.
type ReferralService interface {
	RegisterReferral(ctx context.Context, newUserID int64, referralCode string, bonus decimal.Decimal) (*domain.ReferralResult, error)
}

type referralService struct {
	txRunner
}

// NewReferralService creates a new instance of ReferralService.
func NewReferralService(deps Deps) ReferralService {
	return &referralService{txRunner: newTxRunner(deps)}
}

// RegisterReferral records the edge, links the referrer and credits the
// bonus in one transaction. The UNIQUE constraint on the referred user
// decides races: exactly one concurrent call can insert the edge.
func (s *referralService) RegisterReferral(ctx context.Context, newUserID int64, referralCode string, bonus decimal.Decimal) (*domain.ReferralResult, error) {
	start := time.Now()
	if err := validAmount(bonus); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(referralCode)
	if code == "" {
		return &domain.ReferralResult{Outcome: domain.OutcomeCodeNotFound}, nil
	}

	var result *domain.ReferralResult
	reject := func(outcome domain.Outcome) error {
		result = &domain.ReferralResult{Outcome: outcome}
		return errAbort
	}

	err := s.inTx(ctx, opRegisterReferral, func(q repository.DBExecutor) error {
		result = nil

		referrer, err := s.Users.GetUserByReferralCode(ctx, q, code)
		if errors.Is(err, util.ErrNotFound) {
			return reject(domain.OutcomeCodeNotFound)
		}
		if err != nil {
			return err
		}
		if referrer.ID == newUserID {
			return reject(domain.OutcomeSelfReferral)
		}

		referred, err := s.Users.GetUserByID(ctx, q, newUserID)
		if errors.Is(err, util.ErrNotFound) {
			return reject(domain.OutcomeUserNotFound)
		}
		if err != nil {
			return err
		}
		if referred.ReferredBy != nil {
			return reject(domain.OutcomeAlreadyReferred)
		}

		inserted, err := s.Referrals.InsertReferralIfAbsent(ctx, q, domain.NewReferral(referrer.ID, newUserID, time.Now()))
		if err != nil {
			return err
		}
		if !inserted {
			return reject(domain.OutcomeAlreadyReferred)
		}

		// A referred_by without an edge only exists in data written before
		// edges were recorded; the insert above is rolled back with it.
		linked, err := s.Users.LinkReferrer(ctx, q, newUserID, referrer.ID)
		if err != nil {
			return err
		}
		if !linked {
			return reject(domain.OutcomeAlreadyReferred)
		}

		if err := s.Users.Credit(ctx, q, referrer.ID, bonus); err != nil {
			return err
		}

		result = &domain.ReferralResult{
			Outcome:    domain.OutcomeCredited,
			ReferrerID: referrer.ID,
			Amount:     bonus,
		}
		return nil
	})

	var label string
	if result != nil {
		label = string(result.Outcome)
	}
	s.observe(ctx, opRegisterReferral, start, label, err)
	if err != nil {
		return nil, err
	}
	if result.Outcome == domain.OutcomeCredited {
		s.Logger.InfoContext(ctx, "Referral credited", "referrer_id", result.ReferrerID, "referred_id", newUserID, "amount", bonus.StringFixed(2))
	}
	return result, nil
}
