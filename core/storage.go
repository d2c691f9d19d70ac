package core

import "context"

// UserStorage is the credential store.
//
// Implementations must enforce email uniqueness themselves and report a
// violation as ErrUserExists; lookups that match nothing return
// ErrUserNotFound.
type UserStorage interface {
	// CreateUser assigns ID, CreatedAt and UpdatedAt.
	CreateUser(ctx context.Context, u *User) error

	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)

	// UpdateUser writes Name and Email and refreshes UpdatedAt.
	UpdateUser(ctx context.Context, u *User) error
	// UpdatePassword writes PasswordHash and refreshes UpdatedAt.
	UpdatePassword(ctx context.Context, u *User) error

	DeleteUser(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}
