package crypto

import "crypto/rand"

const (
	// 64 symbols, so every random byte maps onto the alphabet with a 6-bit mask
	requestIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	RequestIDLength   = 22 // 132 bits
)

// NewRequestID returns a URL-safe random id of RequestIDLength characters.
func NewRequestID() (string, error) {
	id := make([]byte, RequestIDLength)
	if _, err := rand.Read(id); err != nil {
		return "", err
	}
	for i, b := range id {
		id[i] = requestIDAlphabet[b&0x3f]
	}
	return string(id), nil
}

// RequestID is NewRequestID shaped as a requestid generator. It returns ""
// if the system random source fails.
func RequestID() string {
	id, err := NewRequestID()
	if err != nil {
		return ""
	}
	return id
}
