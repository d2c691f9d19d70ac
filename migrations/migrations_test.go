package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// Requirement: every dialect ships at least one embedded migration.
func TestMigrations_Embedded(t *testing.T) {
	for _, d := range []string{"postgres", "sqlite"} {
		entries, err := Migrations.ReadDir(d)
		require.NoError(t, err)
		assert.NotEmpty(t, entries, d)
	}
}

// Requirement: Up creates the users table and is idempotent.
func TestUp_SQLite(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	// Act
	require.NoError(t, Up(ctx, db, SQLite))
	require.NoError(t, Up(ctx, db, SQLite))

	// Assert
	var name string
	err = db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'users'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "users", name)
}

func TestUp_UnknownDialect(t *testing.T) {
	err := Up(context.Background(), nil, Dialect("oracle"))

	assert.Error(t, err)
}
