package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

var (
	ErrTooManyArgs = errors.New("too many arguments. expected only 1")
)

const (
	DefaultSecretLength = 32 // 256 bits

	fingerprintLength = 12
)

// GenerateSecret returns byteLength random bytes, base64url encoded. It is
// suitable as a token signing secret.
func GenerateSecret(byteLength ...int) (string, error) {
	if len(byteLength) > 1 {
		return "", ErrTooManyArgs
	}

	length := DefaultSecretLength
	if len(byteLength) > 0 && byteLength[0] > 0 {
		length = byteLength[0]
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// Fingerprint returns a short, stable, non-reversible identifier for a token
// so that it can be correlated in logs without being written out.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])[:fingerprintLength]
}
