// internal/domain/referral.go
package domain

import "time"

// Referral records that ReferredID joined through ReferrerID's code.
// At most one exists per ReferredID.
type Referral struct {
	ID         int64     `json:"id"`
	ReferrerID int64     `json:"referrer_id"`
	ReferredID int64     `json:"referred_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewReferral creates a new Referral edge.
func NewReferral(referrerID, referredID int64, at time.Time) *Referral {
	return &Referral{
		ReferrerID: referrerID,
		ReferredID: referredID,
		CreatedAt:  at.UTC(),
	}
}
