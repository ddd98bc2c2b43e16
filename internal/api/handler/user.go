// internal/api/handler/user.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"rewards-ledger/internal/api/types"
	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/notify"
	"rewards-ledger/internal/service"
)

// UserHandler handles registration and per-user read requests.
type UserHandler struct {
	responder
	ledger        service.LedgerService
	referrals     service.ReferralService
	referralBonus decimal.Decimal
	notifier      notify.Notifier
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(ledger service.LedgerService, referrals service.ReferralService, referralBonus decimal.Decimal, notifier notify.Notifier, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		responder:     responder{logger: logger},
		ledger:        ledger,
		referrals:     referrals,
		referralBonus: referralBonus,
		notifier:      notifier,
	}
}

// StartRequest represents the request body for first and repeated contact.
type StartRequest struct {
	DisplayName  string `json:"display_name"`
	Handle       string `json:"handle"`
	ReferralCode string `json:"referral_code"`
}

// StartResponse is returned by Start. Referral is set only when a code was
// presented on first contact.
type StartResponse struct {
	User     *domain.User           `json:"user"`
	Created  bool                   `json:"created"`
	Referral *domain.ReferralResult `json:"referral,omitempty"`
}

// Start registers the user, or refreshes the display fields, and applies a
// referral code presented on first contact.
// PUT /users/{userID}
func (h *UserHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req StartRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	user, created, err := h.ledger.GetOrCreate(r.Context(), userID, req.DisplayName, req.Handle)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	resp := StartResponse{User: user, Created: created}

	if created && req.ReferralCode != "" {
		referral, err := h.referrals.RegisterReferral(r.Context(), userID, req.ReferralCode, h.referralBonus)
		if err != nil {
			h.respondWithError(w, err)
			return
		}
		resp.Referral = referral
		if referral.Outcome == domain.OutcomeCredited {
			notify.Dispatch(r.Context(), h.notifier, h.logger, notify.Event{
				Kind:          notify.EventReferralCredited,
				UserID:        referral.ReferrerID,
				RelatedUserID: userID,
				Amount:        referral.Amount,
			})
		}
	}

	h.respondWithJSON(w, http.StatusOK, resp)
}

// GetUser handles the get user request.
// GET /users/{userID}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	user, err := h.ledger.GetUser(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}

// GetReferralCount handles the referral count request.
// GET /users/{userID}/referrals/count
func (h *UserHandler) GetReferralCount(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	count, err := h.ledger.GetReferralCount(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":        userID,
		"referral_count": count,
	})
}

// ListWithdrawals handles the withdrawal history request.
// GET /users/{userID}/withdrawals
func (h *UserHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	// Parse query parameters for pagination
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	requests, total, err := h.ledger.ListWithdrawals(r.Context(), userID, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.NewPage(requests, limit, offset, total))
}
