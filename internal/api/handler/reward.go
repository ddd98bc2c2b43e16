// internal/api/handler/reward.go
package handler

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/service"
)

// RewardHandler handles bonus claims, withdrawals and the catalog.
type RewardHandler struct {
	responder
	bonuses     service.BonusService
	withdrawals service.WithdrawalService
	dailyBonus  decimal.Decimal
	now         func() time.Time
}

// NewRewardHandler creates a new RewardHandler.
func NewRewardHandler(bonuses service.BonusService, withdrawals service.WithdrawalService, dailyBonus decimal.Decimal, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{
		responder:   responder{logger: logger},
		bonuses:     bonuses,
		withdrawals: withdrawals,
		dailyBonus:  dailyBonus,
		now:         time.Now,
	}
}

// ClaimResponse is the body of a bonus claim response.
type ClaimResponse struct {
	Outcome          domain.Outcome  `json:"outcome"`
	Amount           decimal.Decimal `json:"amount"`
	NewBalance       decimal.Decimal `json:"new_balance"`
	ClaimedAt        *time.Time      `json:"claimed_at,omitempty"`
	RemainingSeconds int64           `json:"remaining_seconds,omitempty"`
}

// ClaimBonus handles the daily bonus request.
// POST /users/{userID}/bonus/claim
func (h *RewardHandler) ClaimBonus(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	res, err := h.bonuses.Claim(r.Context(), userID, h.dailyBonus, h.now())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	resp := ClaimResponse{Outcome: res.Outcome, NewBalance: res.NewBalance, ClaimedAt: res.ClaimedAt}
	switch res.Outcome {
	case domain.OutcomeClaimed:
		resp.Amount = h.dailyBonus
	case domain.OutcomeNotYetEligible:
		resp.RemainingSeconds = int64(math.Ceil(res.Remaining.Seconds()))
		w.Header().Set("Retry-After", strconv.FormatInt(resp.RemainingSeconds, 10))
	}
	h.respondWithJSON(w, outcomeStatus(res.Outcome), resp)
}

// WithdrawRequest represents the request body for withdraw.
type WithdrawRequest struct {
	ItemCode string `json:"item_code"`
}

// Withdraw handles the item withdrawal request.
// POST /users/{userID}/withdrawals
func (h *RewardHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req WithdrawRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	res, err := h.withdrawals.Withdraw(r.Context(), userID, req.ItemCode, h.now())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, outcomeStatus(res.Outcome), res)
}

// ListCatalog handles the catalog request.
// GET /catalog
func (h *RewardHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": h.withdrawals.ListCatalog(),
	})
}
