package core

import (
	"context"
	"time"

	"github.com/lborres/accounts/pkg/crypto"
)

// Ports define interfaces for external dependencies

// ============================================
// CREDENTIAL PORTS
// ============================================

type PasswordHandler = crypto.PasswordHandler

// TokenIssuer signs and verifies identity tokens.
type TokenIssuer interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)

	// Verify returns the user id carried by token, or ErrInvalidToken /
	// ErrTokenExpired.
	Verify(token string) (userID string, err error)
}

// ============================================
// ACCOUNT PROVIDER (for HTTP adapters)
// ============================================

// AccountProvider provides the account operations HTTP adapters expose.
type AccountProvider interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)

	// Authenticate resolves a raw token into an Identity. A valid token for a
	// user that no longer exists yields an Identity with a nil User.
	Authenticate(ctx context.Context, token string) (*Identity, error)

	UpdateProfile(ctx context.Context, identity *Identity, input UpdateProfileInput) (*User, error)
	ChangePassword(ctx context.Context, identity *Identity, input ChangePasswordInput) (*User, error)
	Delete(ctx context.Context, identity *Identity) error

	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)

	Health(ctx context.Context) error
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(accounts *Accounts) error
}
