// internal/service/withdrawal_service.go
package service

import (
	"context"
	"errors"
	"time"

	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/repository"
	"rewards-ledger/internal/util"
)

// ItemCatalog is the read-only price list used for withdrawals.
type ItemCatalog interface {
	Lookup(code string) (domain.CatalogItem, bool)
	Items() []domain.CatalogItem
}

// WithdrawalService exchanges balance for catalog items.
type WithdrawalService interface {
	Withdraw(ctx context.Context, userID int64, itemCode string, now time.Time) (*domain.WithdrawalResult, error)
	ListCatalog() []domain.CatalogItem
}

type withdrawalService struct {
	txRunner
	catalog ItemCatalog
}

// NewWithdrawalService creates a new instance of WithdrawalService.
func NewWithdrawalService(deps Deps, catalog ItemCatalog) WithdrawalService {
	return &withdrawalService{txRunner: newTxRunner(deps), catalog: catalog}
}

func (s *withdrawalService) ListCatalog() []domain.CatalogItem {
	return s.catalog.Items()
}

// Withdraw debits the item price and records a pending request in one
// transaction. Nothing is written when the balance does not cover the price.
func (s *withdrawalService) Withdraw(ctx context.Context, userID int64, itemCode string, now time.Time) (*domain.WithdrawalResult, error) {
	start := time.Now()

	item, ok := s.catalog.Lookup(itemCode)
	if !ok {
		s.observe(ctx, opWithdraw, start, string(domain.OutcomeItemNotFound), nil)
		return &domain.WithdrawalResult{Outcome: domain.OutcomeItemNotFound}, nil
	}

	var result *domain.WithdrawalResult
	err := s.inTx(ctx, opWithdraw, func(q repository.DBExecutor) error {
		result = nil

		err := s.Users.TryDebit(ctx, q, userID, item.Price)
		switch {
		case errors.Is(err, util.ErrNotFound):
			result = &domain.WithdrawalResult{Outcome: domain.OutcomeUserNotFound}
			return errAbort
		case errors.Is(err, util.ErrInsufficientFunds):
			user, err := s.Users.GetUserByID(ctx, q, userID)
			if err != nil {
				return err
			}
			result = &domain.WithdrawalResult{
				Outcome:    domain.OutcomeInsufficientFunds,
				NewBalance: user.Balance,
				Shortfall:  item.Price.Sub(user.Balance),
			}
			return errAbort
		case err != nil:
			return err
		}

		request := domain.NewWithdrawalRequest(userID, item, now)
		if err := s.Withdrawals.CreateWithdrawal(ctx, q, request); err != nil {
			return err
		}
		user, err := s.Users.GetUserByID(ctx, q, userID)
		if err != nil {
			return err
		}
		result = &domain.WithdrawalResult{
			Outcome:    domain.OutcomeRequested,
			Request:    request,
			NewBalance: user.Balance,
		}
		return nil
	})

	var label string
	if result != nil {
		label = string(result.Outcome)
	}
	s.observe(ctx, opWithdraw, start, label, err)
	if err != nil {
		return nil, err
	}
	if result.Outcome == domain.OutcomeRequested {
		s.Logger.InfoContext(ctx, "Withdrawal requested",
			"user_id", userID,
			"withdrawal_id", result.Request.ID,
			"item_code", item.Code,
			"amount", item.Price.StringFixed(2),
		)
	}
	return result, nil
}
