package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateOpaqueToken generates a random token with the given prefix.
// Format: prefix_randomhex
// Example: imp_a1b2c3d4e5f6...
func GenerateOpaqueToken(prefix string) (string, error) {
	b := make([]byte, 32) // 64 char hex
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b)), nil
}

// GenerateImpersonationToken generates an impersonation token: imp_xxx
func GenerateImpersonationToken() (string, error) {
	return GenerateOpaqueToken("imp")
}

// HashToken returns the hex-encoded SHA-256 digest of a token. Only the
// digest is stored; a leaked table never reveals usable tokens.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
