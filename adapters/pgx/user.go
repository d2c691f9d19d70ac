package pgx

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lborres/accounts/core"
)

const (
	userColumns     = `id, name, email, password_hash, created_at, updated_at`
	uniqueViolation = "23505"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// validID reports whether id can match the uuid column; anything else would
// make postgres reject the query instead of returning no rows.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanUser(row pgx.Row) (*core.User, error) {
	user := &core.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (a *Adapter) CreateUser(ctx context.Context, user *core.User) error {
	query := `INSERT INTO public.users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	var id string
	var createdAt, updatedAt time.Time

	err := a.pool.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrUserExists
		}
		return err
	}

	user.ID = id
	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	if !validID(id) {
		return nil, core.ErrUserNotFound
	}
	q := `SELECT ` + userColumns + ` FROM public.users WHERE id = $1`
	return scanUser(a.pool.QueryRow(ctx, q, id))
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	q := `SELECT ` + userColumns + ` FROM public.users WHERE email = $1`
	return scanUser(a.pool.QueryRow(ctx, q, email))
}

func (a *Adapter) ListUsers(ctx context.Context) ([]*core.User, error) {
	rows, err := a.pool.Query(ctx, `SELECT `+userColumns+` FROM public.users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*core.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (a *Adapter) UpdateUser(ctx context.Context, user *core.User) error {
	if !validID(user.ID) {
		return core.ErrUserNotFound
	}
	q := `UPDATE public.users SET name = $1, email = $2, updated_at = now() WHERE id = $3 RETURNING updated_at`
	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q, user.Name, user.Email, user.ID).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return core.ErrUserExists
		}
		return err
	}
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) UpdatePassword(ctx context.Context, user *core.User) error {
	if !validID(user.ID) {
		return core.ErrUserNotFound
	}
	q := `UPDATE public.users SET password_hash = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`
	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q, user.PasswordHash, user.ID).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrUserNotFound
		}
		return err
	}
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteUser(ctx context.Context, id string) error {
	if !validID(id) {
		return core.ErrUserNotFound
	}
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrUserNotFound
	}
	return nil
}
