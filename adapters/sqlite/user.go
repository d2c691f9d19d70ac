package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/lborres/accounts/core"
)

const userColumns = `id, name, email, password_hash, created_at, updated_at`

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func scanUser(row interface{ Scan(dest ...any) error }) (*core.User, error) {
	user := &core.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (a *Adapter) CreateUser(ctx context.Context, user *core.User) error {
	now := time.Now().UTC()
	id := uuid.NewString()

	q := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := a.db.ExecContext(ctx, q, id, user.Name, user.Email, user.PasswordHash, now, now); err != nil {
		if isUniqueViolation(err) {
			return core.ErrUserExists
		}
		return err
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(a.db.QueryRowContext(ctx, q, id))
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(a.db.QueryRowContext(ctx, q, email))
}

func (a *Adapter) ListUsers(ctx context.Context) ([]*core.User, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
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
	now := time.Now().UTC()
	res, err := a.db.ExecContext(ctx, `UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`,
		user.Name, user.Email, now, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrUserExists
		}
		return err
	}
	if err := requireOneRow(res); err != nil {
		return err
	}
	user.UpdatedAt = now
	return nil
}

func (a *Adapter) UpdatePassword(ctx context.Context, user *core.User) error {
	now := time.Now().UTC()
	res, err := a.db.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		user.PasswordHash, now, user.ID)
	if err != nil {
		return err
	}
	if err := requireOneRow(res); err != nil {
		return err
	}
	user.UpdatedAt = now
	return nil
}

func (a *Adapter) DeleteUser(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrUserNotFound
	}
	return nil
}
