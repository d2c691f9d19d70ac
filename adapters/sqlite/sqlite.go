package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/lborres/accounts/core"
	"github.com/lborres/accounts/migrations"
)

type Adapter struct {
	db *sql.DB
}

var _ core.UserStorage = (*Adapter)(nil)

func New(db *sql.DB) *Adapter {
	return &Adapter{db: db}
}

// Open opens the database at dsn (a file path or ":memory:") and applies
// the schema.
func Open(ctx context.Context, dsn string) (*Adapter, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one connection serialises writers and keeps an in-memory database alive
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{`PRAGMA foreign_keys = ON`, `PRAGMA busy_timeout = 5000`} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to configure sqlite: %w", err)
		}
	}

	if err := migrations.Up(ctx, db, migrations.SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db), nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *Adapter) Close() error {
	return a.db.Close()
}
