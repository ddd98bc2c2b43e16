// internal/api/handler/handler.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rewards-ledger/internal/domain"
	"rewards-ledger/internal/util" // For custom errors
)

// DefaultTimeout bounds the handling of a single request.
const DefaultTimeout = 15 * time.Second

// Pagination defaults for history endpoints.
const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// responder carries the JSON helpers shared by all handlers.
type responder struct {
	logger *slog.Logger
}

// Helper function to send JSON responses.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h responder) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error() // Use the error message directly for invalid input
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrUserNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrUnavailable):
		statusCode = http.StatusServiceUnavailable
		message = "Service temporarily unavailable"
		h.logger.Warn("Ledger unavailable", "error", err)
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

// outcomeStatus maps an expected outcome to its HTTP status.
func outcomeStatus(outcome domain.Outcome) int {
	switch outcome {
	case domain.OutcomeUserNotFound, domain.OutcomeItemNotFound:
		return http.StatusNotFound
	case domain.OutcomeInsufficientFunds:
		return http.StatusPaymentRequired // 402 Payment Required
	case domain.OutcomeNotYetEligible:
		return http.StatusTooManyRequests
	default:
		return http.StatusOK
	}
}

func parseUserID(r *http.Request) (int64, error) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		return 0, util.ErrInvalidInput
	}
	return userID, nil
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return util.ErrInvalidInput
	}
	return nil
}
