package cli_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daap14/console/internal/cli"
	"github.com/daap14/console/internal/result"
	"github.com/daap14/console/internal/user"
)

type mockUsers struct {
	users []user.User
	err   error
}

func (m *mockUsers) List(_ context.Context) ([]user.User, error) {
	return m.users, m.err
}

type mockFixer struct {
	res result.Result
	err error
}

func (m *mockFixer) FixRoles(_ context.Context) (result.Result, error) {
	return m.res, m.err
}

func run(t *testing.T, svc *cli.Services, args ...string) (string, bool, error) {
	t.Helper()
	closed := false
	open := func(_ context.Context) (*cli.Services, func(), error) {
		return svc, func() { closed = true }, nil
	}
	cmd := cli.NewRootCommand(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), closed, err
}

func TestUsers_Table(t *testing.T) {
	id := primitive.NewObjectID()
	svc := &cli.Services{Users: &mockUsers{users: []user.User{
		{ID: id, Email: "alice@example.com", Role: "admin", PasswordHash: "secret",
			CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ID: primitive.NewObjectID(), Email: "bob@example.com"},
	}}}

	out, closed, err := run(t, svc, "users")

	require.NoError(t, err)
	assert.True(t, closed)
	assert.Contains(t, out, "EMAIL")
	assert.Contains(t, out, id.Hex())
	assert.Contains(t, out, "2026-01-02")
	assert.Contains(t, out, "bob@example.com")
	assert.NotContains(t, out, "secret")
}

func TestUsers_JSONOmitsPasswordHash(t *testing.T) {
	svc := &cli.Services{Users: &mockUsers{users: []user.User{
		{ID: primitive.NewObjectID(), Email: "alice@example.com", PasswordHash: "secret"},
	}}}

	out, _, err := run(t, svc, "users", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, "alice@example.com")
	assert.NotContains(t, out, "secret")
}

func TestUsers_Error(t *testing.T) {
	svc := &cli.Services{Users: &mockUsers{err: errors.New("timeout")}}

	_, closed, err := run(t, svc, "users")

	assert.ErrorContains(t, err, "listing users")
	assert.True(t, closed)
}

func TestFixRoles_Success(t *testing.T) {
	svc := &cli.Services{Fixer: &mockFixer{res: result.OK("Fixed 2 user roles", user.RoleRepair{Matched: 2, Modified: 2})}}

	out, _, err := run(t, svc, "fix-roles")

	require.NoError(t, err)
	assert.Contains(t, out, `"message": "Fixed 2 user roles"`)
	assert.Contains(t, out, `"modified": 2`)
}

func TestFixRoles_ReportedFailure(t *testing.T) {
	svc := &cli.Services{Fixer: &mockFixer{res: result.Fail("Role repair was rejected by the database")}}

	out, _, err := run(t, svc, "fix-roles")

	assert.ErrorIs(t, err, cli.ErrRoleRepairFailed)
	assert.Contains(t, out, `"success": false`)
}

func TestFixRoles_Error(t *testing.T) {
	svc := &cli.Services{Fixer: &mockFixer{err: errors.New("socket closed")}}

	_, _, err := run(t, svc, "fix-roles")

	assert.ErrorContains(t, err, "socket closed")
}

func TestOpenFailure(t *testing.T) {
	open := func(_ context.Context) (*cli.Services, func(), error) {
		return nil, nil, errors.New("MONGO_URI is required")
	}
	cmd := cli.NewRootCommand(open)
	cmd.SetArgs([]string{"users"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()

	assert.ErrorContains(t, err, "MONGO_URI")
}
