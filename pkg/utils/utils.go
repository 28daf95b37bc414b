package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a hex-encoded random token with lengthBytes
// bytes of entropy from crypto/rand. The encoded string is twice as long as
// lengthBytes.
func GenerateSecureToken(lengthBytes int) (string, error) {
	if lengthBytes < 16 {
		return "", fmt.Errorf("token length too short: %d bytes", lengthBytes)
	}

	b := make([]byte, lengthBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(b), nil
}
