// Package notify delivers post-commit notifications about ledger changes.
// Delivery is best-effort: a failed notification never affects the ledger.
package notify

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

// EventKind identifies what happened to the recipient's balance.
type EventKind string

const (
	EventReferralCredited EventKind = "referral_credited"
	EventAdminCredited    EventKind = "admin_credited"
)

// Event is addressed to UserID. RelatedUserID is the referred user for
// EventReferralCredited.
type Event struct {
	Kind          EventKind
	UserID        int64
	RelatedUserID int64
	Amount        decimal.Decimal
}

// Notifier delivers events to users, for example as chat messages.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier writes events to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the event.
func (n *LogNotifier) Notify(ctx context.Context, event Event) error {
	n.logger.InfoContext(ctx, "Notification",
		"kind", event.Kind,
		"user_id", event.UserID,
		"related_user_id", event.RelatedUserID,
		"amount", event.Amount.StringFixed(2),
	)
	return nil
}

// Dispatch sends every event and logs, then swallows, delivery failures.
// Callers invoke it only after the mutation has committed.
func Dispatch(ctx context.Context, n Notifier, logger *slog.Logger, events ...Event) {
	if n == nil {
		return
	}
	for _, event := range events {
		if err := n.Notify(ctx, event); err != nil {
			logger.WarnContext(ctx, "Notification failed", "kind", event.Kind, "user_id", event.UserID, "error", err)
		}
	}
}
