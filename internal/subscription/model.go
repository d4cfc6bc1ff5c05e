package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses.
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

// currentStatuses are the statuses that count as a live subscription.
var currentStatuses = []string{StatusActive, StatusTrialing, StatusPastDue}

// Subscription represents a row in the subscriptions table.
type Subscription struct {
	ID                uuid.UUID
	UserID            string // hex ObjectID of the owning user record
	Plan              string
	Status            string
	CancelAtPeriodEnd bool
	CurrentPeriodEnd  time.Time
	CanceledAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
