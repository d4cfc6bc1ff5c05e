package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a user has no current subscription.
var ErrNotFound = errors.New("subscription not found")

// Repository provides operations on the subscriptions table.
type Repository interface {
	Create(ctx context.Context, s *Subscription) error
	// GetCurrent returns the user's most recent active, trialing or past-due subscription.
	GetCurrent(ctx context.Context, userID string) (*Subscription, error)
	// ScheduleCancel flags the subscription to end at its current period end.
	// It returns ErrNotFound when the row is gone or already flagged.
	ScheduleCancel(ctx context.Context, id uuid.UUID, at time.Time) (*Subscription, error)
}
