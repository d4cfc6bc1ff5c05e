package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columns = `id, user_id, plan, status, cancel_at_period_end, current_period_end,
		       canceled_at, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

func scan(row pgx.Row, s *Subscription) error {
	return row.Scan(
		&s.ID, &s.UserID, &s.Plan, &s.Status, &s.CancelAtPeriodEnd,
		&s.CurrentPeriodEnd, &s.CanceledAt, &s.CreatedAt, &s.UpdatedAt,
	)
}

// Create inserts a new subscription record.
func (r *PostgresRepository) Create(ctx context.Context, s *Subscription) error {
	if s.Status == "" {
		s.Status = StatusActive
	}

	query := `
		INSERT INTO subscriptions (user_id, plan, status, current_period_end)
		VALUES ($1, $2, $3, $4)
		RETURNING id, cancel_at_period_end, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, s.UserID, s.Plan, s.Status, s.CurrentPeriodEnd).
		Scan(&s.ID, &s.CancelAtPeriodEnd, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting subscription: %w", err)
	}

	return nil
}

// GetCurrent retrieves the newest live subscription for a user.
func (r *PostgresRepository) GetCurrent(ctx context.Context, userID string) (*Subscription, error) {
	query := `
		SELECT ` + columns + `
		FROM subscriptions
		WHERE user_id = $1 AND status = ANY($2)
		ORDER BY created_at DESC
		LIMIT 1`

	var s Subscription
	if err := scan(r.pool.QueryRow(ctx, query, userID, currentStatuses), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying subscription: %w", err)
	}

	return &s, nil
}

// ScheduleCancel sets cancel_at_period_end and canceled_at on a subscription
// that is not already flagged. A missing or already-flagged row yields ErrNotFound.
func (r *PostgresRepository) ScheduleCancel(ctx context.Context, id uuid.UUID, at time.Time) (*Subscription, error) {
	query := `
		UPDATE subscriptions
		SET cancel_at_period_end = TRUE, canceled_at = $2, updated_at = $2
		WHERE id = $1 AND cancel_at_period_end = FALSE
		RETURNING ` + columns

	var s Subscription
	if err := scan(r.pool.QueryRow(ctx, query, id, at), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("canceling subscription: %w", err)
	}

	return &s, nil
}
