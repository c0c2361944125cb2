package appointment

import (
	"crypto/rand"
	"fmt"
)

// tokenAlphabet omits look-alike characters (0/O, 1/I/L) since tokens are
// read out at the clinic desk.
const tokenAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// TokenLength is the length of generated booking tokens.
const TokenLength = 6

// GenerateToken returns a random booking token. Uniqueness is the caller's
// responsibility; the service retries on collision.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}
