package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomString returns n random bytes hex-encoded, so the
// result is 2n characters long.
func GenerateRandomString(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", ErrorHandler(err, "failed to generate random string")
	}
	return hex.EncodeToString(bytes), nil
}
