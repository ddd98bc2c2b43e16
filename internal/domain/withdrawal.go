// internal/domain/withdrawal.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithdrawalStatus defines the fulfilment state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusFulfilled  WithdrawalStatus = "fulfilled"
	WithdrawalStatusRejected   WithdrawalStatus = "rejected"
)

// WithdrawalRequest is the audit record of a balance-for-item exchange.
type WithdrawalRequest struct {
	ID          string           `json:"id"`
	UserID      int64            `json:"user_id"`
	ItemCode    string           `json:"item_code"`
	ItemName    string           `json:"item_name"`
	Amount      decimal.Decimal  `json:"amount"`
	Status      WithdrawalStatus `json:"status"`
	RequestedAt time.Time        `json:"requested_at"`
}

// NewWithdrawalRequest creates a pending request for item.
func NewWithdrawalRequest(userID int64, item CatalogItem, at time.Time) *WithdrawalRequest {
	return &WithdrawalRequest{
		ID:          uuid.NewString(),
		UserID:      userID,
		ItemCode:    item.Code,
		ItemName:    item.Name,
		Amount:      item.Price,
		Status:      WithdrawalStatusPending,
		RequestedAt: at.UTC(),
	}
}
