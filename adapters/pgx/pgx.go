package pgx

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/lborres/accounts/core"
	"github.com/lborres/accounts/migrations"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ core.UserStorage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}

// Open connects to dsn and applies the schema.
func Open(ctx context.Context, dsn string) (*Adapter, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	a := New(pool)
	if err := a.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return a, nil
}

// Migrate applies the embedded postgres migrations through the pool.
func (a *Adapter) Migrate(ctx context.Context) error {
	// closing this handle would close the pool
	db := stdlib.OpenDBFromPool(a.pool)
	return migrations.Up(ctx, db, migrations.Postgres)
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.pool.Ping(ctx)
}

func (a *Adapter) Close() error {
	a.pool.Close()
	return nil
}
