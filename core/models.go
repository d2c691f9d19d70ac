package core

import "time"

// User represents a user account in the system
//
// PasswordHash only ever holds the output of a PasswordHandler.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is what the auth gate resolved from a verified token.
//
// User is nil when the token is valid but its user id no longer resolves
// to a record (e.g. the account was deleted after the token was issued).
type Identity struct {
	UserID string
	User   *User
}

// RequireUser returns the resolved user, or ErrNotLoggedIn for a missing or
// stale identity.
func (i *Identity) RequireUser() (*User, error) {
	if i == nil || i.User == nil {
		return nil, ErrNotLoggedIn
	}
	return i.User, nil
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,max=320"`
	Password string `json:"password" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput fields left empty keep their current value.
type UpdateProfileInput struct {
	Name  string `json:"name" validate:"max=255"`
	Email string `json:"email" validate:"max=320"`
}

// ChangePasswordInput only requires NewPassword. An empty OldPassword fails
// verification and an empty ConfirmPassword fails the confirmation.
type ChangePasswordInput struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"-"` // Delivered as a cookie, not in the body
	ExpiresAt time.Time `json:"expiresAt"`
}
