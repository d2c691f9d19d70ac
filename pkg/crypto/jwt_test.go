package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("01234567890123456789012345678901")

// Requirement: a signed token round-trips to the user id it was issued for.
func TestSignToken_RoundTrip(t *testing.T) {
	// Arrange
	now := time.Now()

	// Act
	token, err := SignToken(testSecret, "user-1", time.Hour, now)
	require.NoError(t, err)
	userID, err := ParseToken(testSecret, token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

// Requirement: tokens are never issued without a secret.
func TestSignToken_RequiresSecret(t *testing.T) {
	_, err := SignToken(nil, "user-1", time.Hour, time.Now())
	assert.ErrorIs(t, err, ErrSecretRequired)

	_, err = ParseToken([]byte{}, "anything")
	assert.ErrorIs(t, err, ErrSecretRequired)
}

func TestParseToken_Failures(t *testing.T) {
	valid, err := SignToken(testSecret, "user-1", time.Hour, time.Now())
	require.NoError(t, err)

	expired, err := SignToken(testSecret, "user-1", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	otherSecret, err := SignToken([]byte("another-secret-another-secret-xx"), "user-1", time.Hour, time.Now())
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "user-1"}).SignedString(testSecret)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(testSecret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "user-1",
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "expired", token: expired, wantErr: ErrTokenExpired},
		{name: "wrong secret", token: otherSecret, wantErr: ErrInvalidToken},
		{name: "tampered", token: valid + "x", wantErr: ErrInvalidToken},
		{name: "malformed", token: "not.a.jwt", wantErr: ErrInvalidToken},
		{name: "empty", token: "", wantErr: ErrInvalidToken},
		{name: "missing expiry", token: noExpiry, wantErr: ErrInvalidToken},
		{name: "missing user id", token: noUser, wantErr: ErrInvalidToken},
		{name: "unexpected algorithm", token: hs512, wantErr: ErrInvalidToken},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Act
			userID, err := ParseToken(testSecret, test.token)

			// Assert
			assert.ErrorIs(t, err, test.wantErr)
			assert.Empty(t, userID)
		})
	}
}
