package core

import (
	"errors"

	"github.com/lborres/accounts/pkg/crypto"
)

// Account errors
var (
	ErrUserExists         = errors.New("user already present")                               // 401 (conflict)
	ErrUserNotFound       = errors.New("user not found")                                     // 404
	ErrInvalidCredentials = errors.New("Invalid credentials")                                // 403
	ErrNotLoggedIn        = errors.New("you are not logged in")                              // 403
	ErrWrongPassword      = errors.New("wrong old password")                                 // 401
	ErrPasswordMismatch   = errors.New("new password and confirm password should be same") // 402
)

// Token errors
var (
	ErrMissingToken   = errors.New("Please Login to access this resource") // 401
	ErrInvalidToken   = crypto.ErrInvalidToken                             // 401
	ErrTokenExpired   = crypto.ErrTokenExpired                             // 401
	ErrSecretRequired = crypto.ErrSecretRequired                           // 500
)

// Validation errors (client input)
var (
	ErrInvalidInput    = errors.New("invalid request body") // 400
	ErrInvalidEmail    = errors.New("invalid email format") // 400
	ErrPasswordTooLong = crypto.ErrPasswordTooLong          // 400
)

// Storage errors
var (
	ErrStoreUnavailable = errors.New("credential store unavailable") // 503
)

// Config errors (server-side configuration)
var (
	ErrDBAdapterRequired   = errors.New("database adapter is required")
	ErrHTTPAdapterRequired = errors.New("http adapter is required")
	ErrSecretTooShort      = errors.New("secret too short")
)
