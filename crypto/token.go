package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const DefaultTokenLength = 32

// GenerateToken returns a hex-encoded random token of DefaultTokenLength bytes.
func GenerateToken() (string, error) {
	return GenerateTokenWithLength(DefaultTokenLength)
}

func GenerateTokenWithLength(length int) (string, error) {
	if length <= 0 {
		length = DefaultTokenLength
	}
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a raw token. The digest
// is what gets persisted; lookups are by digest, so it must be deterministic.
func HashToken(raw string) string {
	hash := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(hash[:])
}

// ConstantTimeEquals reports whether a and b are equal without leaking the
// position of the first differing byte. Length mismatches return false.
func ConstantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
