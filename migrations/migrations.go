// Package migrations embeds the schema for every supported store and applies
// it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

// Dialect selects a migration set.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// goose keeps its base FS and dialect in package state.
var mu sync.Mutex

func dir(d Dialect) (string, error) {
	switch d {
	case Postgres:
		return "postgres", nil
	case SQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", d)
	}
}

// Up applies every pending migration for dialect to db.
func Up(ctx context.Context, db *sql.DB, dialect Dialect) error {
	path, err := dir(dialect)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, path); err != nil {
		return fmt.Errorf("failed to apply %s migrations: %w", dialect, err)
	}
	return nil
}
