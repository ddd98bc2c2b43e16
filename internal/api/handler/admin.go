// internal/api/handler/admin.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/notify"
	"rewards-ledger/internal/service"
)

// AdminHandler handles operator requests. Authentication is done by the
// router middleware.
type AdminHandler struct {
	responder
	ledger   service.LedgerService
	admin    service.AdminService
	notifier notify.Notifier
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ledger service.LedgerService, admin service.AdminService, notifier notify.Notifier, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		responder: responder{logger: logger},
		ledger:    ledger,
		admin:     admin,
		notifier:  notifier,
	}
}

// CreditRequest represents the request body for admin credits.
type CreditRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreditUser handles a targeted credit.
// POST /admin/users/{userID}/credit
func (h *AdminHandler) CreditUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req CreditRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	res, err := h.admin.CreditUser(r.Context(), userID, req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if res.Outcome == domain.OutcomeCredited {
		notify.Dispatch(r.Context(), h.notifier, h.logger, notify.Event{
			Kind:   notify.EventAdminCredited,
			UserID: userID,
			Amount: req.Amount,
		})
	}
	h.respondWithJSON(w, outcomeStatus(res.Outcome), res)
}

// CreditAll handles a bulk credit of every known user.
// POST /admin/credit-all
func (h *AdminHandler) CreditAll(w http.ResponseWriter, r *http.Request) {
	var req CreditRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	report, err := h.admin.CreditAll(r.Context(), req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	events := make([]notify.Event, 0, len(report.Succeeded))
	for _, userID := range report.Succeeded {
		events = append(events, notify.Event{Kind: notify.EventAdminCredited, UserID: userID, Amount: req.Amount})
	}
	notify.Dispatch(r.Context(), h.notifier, h.logger, events...)

	h.respondWithJSON(w, http.StatusOK, report)
}

// Stats handles the aggregate statistics request.
// GET /admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledger.GetStats(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, stats)
}
