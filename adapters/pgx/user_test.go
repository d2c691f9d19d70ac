package pgx

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lborres/accounts/core"
)

func setupPostgres(t *testing.T) *Adapter {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "accounts",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/accounts?sslmode=disable", host, port.Port())
	a, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAdapterIntegration(t *testing.T) {
	a := setupPostgres(t)
	ctx := context.Background()

	// Migrations are idempotent.
	require.NoError(t, a.Migrate(ctx))
	require.NoError(t, a.Ping(ctx))

	t.Run("create assigns uuid and timestamps", func(t *testing.T) {
		u := &core.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "$2a$10$hash"}
		require.NoError(t, a.CreateUser(ctx, u))

		assert.True(t, validID(u.ID))
		assert.False(t, u.CreatedAt.IsZero())

		got, err := a.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "$2a$10$hash", got.PasswordHash)
	})

	t.Run("duplicate email is ErrUserExists", func(t *testing.T) {
		err := a.CreateUser(ctx, &core.User{Name: "Again", Email: "alice@example.com", PasswordHash: "x"})
		assert.ErrorIs(t, err, core.ErrUserExists)
	})

	t.Run("malformed and unknown ids are not found", func(t *testing.T) {
		_, err := a.GetUserByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, core.ErrUserNotFound)

		_, err = a.GetUserByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, core.ErrUserNotFound)

		assert.ErrorIs(t, a.DeleteUser(ctx, "00000000-0000-0000-0000-000000000000"), core.ErrUserNotFound)
	})

	t.Run("updates and delete", func(t *testing.T) {
		bob := &core.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "x"}
		require.NoError(t, a.CreateUser(ctx, bob))

		bob.Name = "Robert"
		require.NoError(t, a.UpdateUser(ctx, bob))
		bob.PasswordHash = "y"
		require.NoError(t, a.UpdatePassword(ctx, bob))

		got, err := a.GetUserByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "Robert", got.Name)
		assert.Equal(t, "y", got.PasswordHash)

		bob.Email = "alice@example.com"
		assert.ErrorIs(t, a.UpdateUser(ctx, bob), core.ErrUserExists)

		users, err := a.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)

		require.NoError(t, a.DeleteUser(ctx, bob.ID))
		_, err = a.GetUserByID(ctx, bob.ID)
		assert.ErrorIs(t, err, core.ErrUserNotFound)
	})
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("6f1c2a4e-8c1b-4c6a-9d47-1c2b3a4d5e6f"))
	assert.False(t, validID(""))
	assert.False(t, validID("42"))
}
