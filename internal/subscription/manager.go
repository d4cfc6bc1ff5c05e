package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/daap14/console/internal/result"
)

// Caller-facing messages reported by Manager.
const (
	MsgNoSubscription   = "No active subscription found"
	MsgAlreadyCanceling = "Subscription is already scheduled for cancellation"
	MsgCanceled         = "Subscription will be canceled at the end of the current billing period"
)

// CancelData is the payload of a successful cancellation.
type CancelData struct {
	SubscriptionID    string `json:"subscriptionId"`
	Plan              string `json:"plan"`
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancelAtPeriodEnd"`
	CurrentPeriodEnd  string `json:"currentPeriodEnd"`
}

// Manager applies subscription state transitions for a user.
type Manager struct {
	repo Repository
	now  func() time.Time
}

// NewManager creates a new Manager.
func NewManager(repo Repository) *Manager {
	return &Manager{repo: repo, now: time.Now}
}

// Current returns the user's live subscription, or ErrNotFound.
func (m *Manager) Current(ctx context.Context, userID string) (*Subscription, error) {
	return m.repo.GetCurrent(ctx, userID)
}

// Cancel schedules the user's current subscription to end with its billing
// period. Business-rule rejections are reported as failed results; only
// storage failures are returned as errors.
func (m *Manager) Cancel(ctx context.Context, userID string) (result.Result, error) {
	sub, err := m.repo.GetCurrent(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return result.Fail(MsgNoSubscription), nil
		}
		return result.Result{}, fmt.Errorf("loading subscription: %w", err)
	}

	if sub.CancelAtPeriodEnd {
		return result.Fail(MsgAlreadyCanceling), nil
	}

	updated, err := m.repo.ScheduleCancel(ctx, sub.ID, m.now().UTC())
	if err != nil {
		// Another request flagged the row after the lookup above.
		if errors.Is(err, ErrNotFound) {
			return result.Fail(MsgAlreadyCanceling), nil
		}
		return result.Result{}, fmt.Errorf("canceling subscription: %w", err)
	}

	slog.Info("subscription scheduled for cancellation",
		"subscriptionId", updated.ID.String(),
		"userId", userID,
	)

	return result.OK(MsgCanceled, CancelData{
		SubscriptionID:    updated.ID.String(),
		Plan:              updated.Plan,
		Status:            updated.Status,
		CancelAtPeriodEnd: updated.CancelAtPeriodEnd,
		CurrentPeriodEnd:  updated.CurrentPeriodEnd.UTC().Format(time.RFC3339),
	}), nil
}
