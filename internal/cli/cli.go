// Package cli implements the console admin command.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/daap14/console/internal/result"
	"github.com/daap14/console/internal/user"
)

// UserLister fetches all user records.
type UserLister interface {
	List(ctx context.Context) ([]user.User, error)
}

// RoleFixer repairs invalid user roles.
type RoleFixer interface {
	FixRoles(ctx context.Context) (result.Result, error)
}

// Services are the collaborators a command runs against.
type Services struct {
	Users UserLister
	Fixer RoleFixer
}

// Opener connects the services and returns a function that releases them.
type Opener func(ctx context.Context) (*Services, func(), error)

// ErrRoleRepairFailed is returned when the fixer reports failure.
var ErrRoleRepairFailed = errors.New("role repair failed")

// NewRootCommand builds the admin command tree.
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Console maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newUsersCommand(open), newFixRolesCommand(open))
	return root
}

func newUsersCommand(open Opener) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List user records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			users, err := svc.Users.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing users: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), users)
			}
			return writeUserTable(cmd.OutOrStdout(), users)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func newFixRolesCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "fix-roles",
		Short: "Reset missing or invalid user roles to the default role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Fixer.FixRoles(cmd.Context())
			if err != nil {
				return fmt.Errorf("fixing roles: %w", err)
			}
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return ErrRoleRepairFailed
			}
			return nil
		},
	}
}

func writeUserTable(w io.Writer, users []user.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tROLE\tCREATED")
	for _, u := range users {
		role := u.Role
		if role == "" {
			role = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID.Hex(), u.Email, role, u.CreatedAt.UTC().Format(time.DateOnly))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
