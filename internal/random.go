package internal

import (
	"crypto/rand"
	"encoding/base64"
)

// DefaultIDBytes is the entropy behind challenge ids, challenge values, and
// session tokens. 16 raw bytes encode to a fixed 22-character printable
// string.
const DefaultIDBytes = 16

// NewToken returns a fixed-length printable random string carrying n bytes of
// entropy, base64url without padding.
func NewToken(n int) (string, error) {
	if n <= 0 {
		n = DefaultIDBytes
	}
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// EncodedLen reports the string length NewToken produces for n entropy bytes.
func EncodedLen(n int) int {
	if n <= 0 {
		n = DefaultIDBytes
	}
	return base64.RawURLEncoding.EncodedLen(n)
}
