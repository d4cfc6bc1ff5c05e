// Package roles repairs user role assignments in the document store.
package roles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/daap14/console/internal/result"
	"github.com/daap14/console/internal/user"
)

// MsgRejected is reported when the database refuses the role update.
const MsgRejected = "Role repair was rejected by the database"

// Valid lists the roles a user record may carry.
var Valid = []string{user.RoleUser, user.RoleAdmin}

// Normalizer is the slice of user.Repository the fixer needs.
type Normalizer interface {
	NormalizeRoles(ctx context.Context, valid []string, defaultRole string) (user.RoleRepair, error)
}

// Fixer resets missing or unknown roles to the default role.
type Fixer struct {
	users Normalizer
}

// NewFixer creates a new Fixer.
func NewFixer(users Normalizer) *Fixer {
	return &Fixer{users: users}
}

// FixRoles runs the repair. Running it twice is safe: the second run matches
// nothing.
func (f *Fixer) FixRoles(ctx context.Context) (result.Result, error) {
	repair, err := f.users.NormalizeRoles(ctx, Valid, user.RoleUser)
	if err != nil {
		var we mongo.WriteException
		if errors.As(err, &we) {
			slog.Warn("role repair rejected", "error", err)
			return result.Result{Success: false, Message: MsgRejected, Data: repair}, nil
		}
		return result.Result{}, fmt.Errorf("fixing user roles: %w", err)
	}

	slog.Info("user roles repaired", "matched", repair.Matched, "modified", repair.Modified)

	return result.OK(fmt.Sprintf("Fixed %d user roles", repair.Modified), repair), nil
}
