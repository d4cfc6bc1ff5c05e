package roles_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/daap14/console/internal/roles"
	"github.com/daap14/console/internal/user"
)

type mockNormalizer struct {
	normalizeFn func(ctx context.Context, valid []string, defaultRole string) (user.RoleRepair, error)
}

func (m *mockNormalizer) NormalizeRoles(ctx context.Context, valid []string, defaultRole string) (user.RoleRepair, error) {
	return m.normalizeFn(ctx, valid, defaultRole)
}

func TestFixRoles_Success(t *testing.T) {
	t.Parallel()

	n := &mockNormalizer{
		normalizeFn: func(_ context.Context, valid []string, defaultRole string) (user.RoleRepair, error) {
			assert.ElementsMatch(t, []string{"user", "admin"}, valid)
			assert.Equal(t, "user", defaultRole)
			return user.RoleRepair{Matched: 4, Modified: 4}, nil
		},
	}

	res, err := roles.NewFixer(n).FixRoles(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Fixed 4 user roles", res.Message)
	assert.Equal(t, user.RoleRepair{Matched: 4, Modified: 4}, res.Data)
}

func TestFixRoles_NothingToFix(t *testing.T) {
	t.Parallel()

	n := &mockNormalizer{
		normalizeFn: func(_ context.Context, _ []string, _ string) (user.RoleRepair, error) {
			return user.RoleRepair{}, nil
		},
	}

	res, err := roles.NewFixer(n).FixRoles(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Fixed 0 user roles", res.Message)
}

func TestFixRoles_WriteRejected(t *testing.T) {
	t.Parallel()

	n := &mockNormalizer{
		normalizeFn: func(_ context.Context, _ []string, _ string) (user.RoleRepair, error) {
			we := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121, Message: "Document failed validation"}}}
			return user.RoleRepair{}, fmt.Errorf("normalizing roles: %w", we)
		},
	}

	res, err := roles.NewFixer(n).FixRoles(context.Background())

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, roles.MsgRejected, res.Message)
}

func TestFixRoles_StoreError(t *testing.T) {
	t.Parallel()

	n := &mockNormalizer{
		normalizeFn: func(_ context.Context, _ []string, _ string) (user.RoleRepair, error) {
			return user.RoleRepair{}, errors.New("server selection timeout")
		},
	}

	_, err := roles.NewFixer(n).FixRoles(context.Background())

	assert.Error(t, err)
}
