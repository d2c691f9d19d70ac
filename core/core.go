package core

import (
	"time"

	"go.uber.org/zap"

	"github.com/lborres/accounts/pkg/metrics"
)

const (
	DefaultCookieName = "token"
	day               = 24 * time.Hour
)

type TokenConfig struct {
	TTL time.Duration
}

func DefaultTokenConfig() TokenConfig {
	return TokenConfig{TTL: 2 * day}
}

// CookieConfig controls the cookie that carries the token. Its retention is
// independent of the token lifetime: a cookie may outlive the token inside it.
type CookieConfig struct {
	Name         string
	Path         string
	Domain       string
	Secure       bool
	SignUpMaxAge time.Duration
	SignInMaxAge time.Duration
}

func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		Name:         DefaultCookieName,
		Path:         "/",
		SignUpMaxAge: 2 * day,
		SignInMaxAge: 1 * day,
	}
}

type Config struct {
	Secret string

	Database UserStorage

	HTTP HTTPAdapter

	// Optional config
	PasswordHasher PasswordHandler
	TokenConfig    *TokenConfig
	CookieConfig   *CookieConfig
	BasePath       string
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
}

// Accounts is the wired service handed to the HTTP adapter.
type Accounts struct {
	Provider AccountProvider
	Tokens   TokenIssuer
	Cookie   CookieConfig
	BasePath string
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}
