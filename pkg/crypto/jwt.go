package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSecretRequired = errors.New("token signing secret is not configured")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims carries the user id under "id" next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// SignToken issues an HS256 token for userID that expires ttl after now.
func SignToken(secret []byte, userID string, ttl time.Duration, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", ErrSecretRequired
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})

	return token.SignedString(secret)
}

// ParseToken verifies tokenString and returns the user id it carries.
func ParseToken(secret []byte, tokenString string) (string, error) {
	if len(secret) == 0 {
		return "", ErrSecretRequired
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
