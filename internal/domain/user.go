// internal/domain/user.go
package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// User is a participant of the rewards program. ID is the external chat
// identifier and never changes.
type User struct {
	ID                 int64           `json:"id"`
	DisplayName        string          `json:"display_name"`
	Handle             string          `json:"handle"`
	Balance            decimal.Decimal `json:"balance"`
	LastBonusClaimedAt *time.Time      `json:"last_bonus_claimed_at,omitempty"`
	ReferralCode       string          `json:"referral_code"`
	ReferredBy         *int64          `json:"referred_by,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// NewUser creates a User with a zero balance and its referral code.
func NewUser(id int64, displayName, handle string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id,
		DisplayName:  displayName,
		Handle:       handle,
		Balance:      decimal.Zero,
		ReferralCode: ReferralCodeFor(id),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ReferralCodeFor derives the referral code of a user from its id.
func ReferralCodeFor(id int64) string {
	return "REF" + strconv.FormatInt(id, 10)
}
