// internal/domain/outcome.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BonusCooldown is the minimum time between two daily bonus claims.
const BonusCooldown = 24 * time.Hour

// Outcome names the result of a ledger operation. Failure outcomes are
// expected conditions reported to the user, not errors.
type Outcome string

const (
	OutcomeCredited  Outcome = "credited"
	OutcomeClaimed   Outcome = "claimed"
	OutcomeRequested Outcome = "requested"

	OutcomeUserNotFound      Outcome = "user_not_found"
	OutcomeItemNotFound      Outcome = "item_not_found"
	OutcomeInsufficientFunds Outcome = "insufficient_funds"
	OutcomeSelfReferral      Outcome = "self_referral"
	OutcomeAlreadyReferred   Outcome = "already_referred"
	OutcomeCodeNotFound      Outcome = "code_not_found"
	OutcomeNotYetEligible    Outcome = "not_yet_eligible"
)

// OK reports whether the outcome is a success variant.
func (o Outcome) OK() bool {
	switch o {
	case OutcomeCredited, OutcomeClaimed, OutcomeRequested:
		return true
	}
	return false
}

// ReferralResult is returned by the referral engine.
type ReferralResult struct {
	Outcome    Outcome         `json:"outcome"`
	ReferrerID int64           `json:"referrer_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// ClaimResult is returned by the bonus scheduler. Remaining is set for
// OutcomeNotYetEligible.
type ClaimResult struct {
	Outcome    Outcome         `json:"outcome"`
	NewBalance decimal.Decimal `json:"new_balance"`
	ClaimedAt  *time.Time      `json:"claimed_at,omitempty"`
	Remaining  time.Duration   `json:"remaining"`
}

// WithdrawalResult is returned by the withdrawal processor. Shortfall is set
// for OutcomeInsufficientFunds.
type WithdrawalResult struct {
	Outcome    Outcome            `json:"outcome"`
	Request    *WithdrawalRequest `json:"request,omitempty"`
	NewBalance decimal.Decimal    `json:"new_balance"`
	Shortfall  decimal.Decimal    `json:"shortfall"`
}

// CreditResult is returned by targeted admin credits.
type CreditResult struct {
	Outcome    Outcome         `json:"outcome"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// CreditFailure explains why a single user was skipped by a bulk credit.
type CreditFailure struct {
	UserID int64  `json:"user_id"`
	Reason string `json:"reason"`
}

// CreditReport lists who was and was not credited by a bulk credit.
type CreditReport struct {
	Amount    decimal.Decimal `json:"amount"`
	Succeeded []int64         `json:"succeeded"`
	Failed    []CreditFailure `json:"failed"`
}

// Stats holds aggregate ledger figures for operators.
type Stats struct {
	TotalUsers         int64           `json:"total_users"`
	TotalBalance       decimal.Decimal `json:"total_balance"`
	PendingWithdrawals int64           `json:"pending_withdrawals"`
}
