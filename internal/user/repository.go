package user

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no user record matches.
var ErrNotFound = errors.New("user not found")

// Repository provides operations on the users collection.
type Repository interface {
	// List returns every user, newest first, without password hashes.
	List(ctx context.Context) ([]User, error)
	// GetBySubject looks a user up by identity-provider subject.
	GetBySubject(ctx context.Context, subject string) (*User, error)
	// UpsertFromLogin creates or refreshes the record for a login profile.
	UpsertFromLogin(ctx context.Context, p LoginProfile, at time.Time) (*User, error)
	// NormalizeRoles sets defaultRole on every record whose role is not in valid.
	NormalizeRoles(ctx context.Context, valid []string, defaultRole string) (RoleRepair, error)
}
