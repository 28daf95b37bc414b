package rememberme

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Credential is one issued remember-me token, stored server-side as a hash.
// The plaintext token only ever lives in the client cookie.
type Credential struct {
	ID        uuid.UUID
	UserID    int64
	TokenHash string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the credential is past its expiry
func (c Credential) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// HashToken digests a plaintext token for storage and comparison. The tokens
// carry 32 bytes of entropy, so a plain digest (no slow KDF) is sufficient.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
