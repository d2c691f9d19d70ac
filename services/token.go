package services

import (
	"time"

	"github.com/lborres/accounts/core"
	"github.com/lborres/accounts/pkg/crypto"
)

// TokenManager issues and verifies identity tokens with a fixed secret and
// lifetime.
type TokenManager struct {
	config core.TokenConfig
	secret []byte
	now    func() time.Time
}

var _ core.TokenIssuer = (*TokenManager)(nil)

func NewTokenManager(config core.TokenConfig, secret string) *TokenManager {
	return &TokenManager{config: config, secret: []byte(secret), now: time.Now}
}

func (tm *TokenManager) Issue(userID string) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(tm.config.TTL)

	token, err := crypto.SignToken(tm.secret, userID, tm.config.TTL, now)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

func (tm *TokenManager) Verify(token string) (string, error) {
	return crypto.ParseToken(tm.secret, token)
}
