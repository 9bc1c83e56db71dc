package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken returns the SHA-256 digest of a raw session token as a hex
// string.  Shared stores key revoked tokens by this digest so the bearer
// value itself is never written outside the process.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
