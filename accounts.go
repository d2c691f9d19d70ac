package accounts

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lborres/accounts/core"
	"github.com/lborres/accounts/pkg/crypto"
	"github.com/lborres/accounts/services"
)

// interfaces
type (
	UserStorage = core.UserStorage

	HTTPAdapter = core.HTTPAdapter

	AccountProvider = core.AccountProvider
	TokenIssuer     = core.TokenIssuer

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	Accounts     = core.Accounts
	Config       = core.Config
	TokenConfig  = core.TokenConfig
	CookieConfig = core.CookieConfig
)

type (
	User                = core.User
	Identity            = core.Identity
	RegisterInput       = core.RegisterInput
	LoginInput          = core.LoginInput
	UpdateProfileInput  = core.UpdateProfileInput
	ChangePasswordInput = core.ChangePasswordInput
	AuthResult          = core.AuthResult
)

type (
	Endpoint         = core.Endpoint
	EndpointMetadata = core.EndpointMetadata
	RequestContext   = core.RequestContext
	SuccessResponse  = core.SuccessResponse
	UserListResponse = core.UserListResponse
	ErrorResponse    = core.ErrorResponse
)

const (
	defaultBasePath  = "/api"
	defaultSecretLen = 32
)

// Constructors & helpers (convenience re-exports)
var (
	NewBcrypt           = crypto.NewBcrypt
	NewArgon2           = crypto.NewArgon2
	DefaultTokenConfig  = core.DefaultTokenConfig
	DefaultCookieConfig = core.DefaultCookieConfig
)

var (
	ErrUserExists         = core.ErrUserExists
	ErrUserNotFound       = core.ErrUserNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrNotLoggedIn        = core.ErrNotLoggedIn
	ErrWrongPassword      = core.ErrWrongPassword
	ErrPasswordMismatch   = core.ErrPasswordMismatch
)

var (
	ErrMissingToken = core.ErrMissingToken
	ErrInvalidToken = core.ErrInvalidToken
	ErrTokenExpired = core.ErrTokenExpired
)

var (
	ErrInvalidInput    = core.ErrInvalidInput
	ErrInvalidEmail    = core.ErrInvalidEmail
	ErrPasswordTooLong = core.ErrPasswordTooLong
)

var (
	ErrStoreUnavailable = core.ErrStoreUnavailable
)

var (
	ErrDBAdapterRequired   = core.ErrDBAdapterRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
	ErrSecretRequired      = core.ErrSecretRequired
	ErrSecretTooShort      = core.ErrSecretTooShort
)

func New(config Config) (*Accounts, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Database == nil {
		return nil, ErrDBAdapterRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	tokenConfig := DefaultTokenConfig()
	if config.TokenConfig != nil && config.TokenConfig.TTL > 0 {
		tokenConfig = *config.TokenConfig
	}

	cookieConfig := DefaultCookieConfig()
	if c := config.CookieConfig; c != nil {
		if c.Name != "" {
			cookieConfig.Name = c.Name
		}
		if c.Path != "" {
			cookieConfig.Path = c.Path
		}
		if c.SignUpMaxAge > 0 {
			cookieConfig.SignUpMaxAge = c.SignUpMaxAge
		}
		if c.SignInMaxAge > 0 {
			cookieConfig.SignInMaxAge = c.SignInMaxAge
		}
		cookieConfig.Domain = c.Domain
		cookieConfig.Secure = c.Secure
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = NewBcrypt()
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tokens := services.NewTokenManager(tokenConfig, config.Secret)

	accounts := &Accounts{
		Provider: services.NewAccountService(config.Database, passwordHasher, tokens, logger, config.Metrics),
		Tokens:   tokens,
		Cookie:   cookieConfig,
		BasePath: basePath,
		Logger:   logger,
		Metrics:  config.Metrics,
	}

	if err := config.HTTP.RegisterRoutes(accounts); err != nil {
		return nil, err
	}

	return accounts, nil
}
