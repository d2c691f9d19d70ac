package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/lborres/accounts"
	"github.com/lborres/accounts/adapters/memory"
	"github.com/lborres/accounts/adapters/pgx"
	"github.com/lborres/accounts/adapters/sqlite"
)

// openStore picks the credential store from the scheme of rawURL:
// memory://, postgres:// (or postgresql://) and sqlite://<path>.
func openStore(ctx context.Context, rawURL string) (accounts.UserStorage, func() error, error) {
	scheme, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return nil, nil, fmt.Errorf("DATABASE_URL %q has no scheme", rawURL)
	}

	switch strings.ToLower(scheme) {
	case "memory":
		return memory.New(), func() error { return nil }, nil

	case "postgres", "postgresql":
		store, err := pgx.Open(ctx, rawURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return store, store.Close, nil

	case "sqlite":
		if rest == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL %q has no sqlite path", rawURL)
		}
		store, err := sqlite.Open(ctx, rest)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported DATABASE_URL scheme %q", scheme)
	}
}
