// Package token generates the random identifiers used across the bot
// platform: UUIDs for bot and subscription identity, and 32-character
// hexadecimal shared secrets (the format of an MD5 digest) used as platform
// API keys and webhook challenges.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

// SecretLength is the length of a platform API key / shared secret.
const SecretLength = 32

var secretPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// NewUUID returns a new random (v4) UUID string.
func NewUUID() string {
	return uuid.New().String()
}

// IsUUID reports whether s is a syntactically valid UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// NewSecret returns a cryptographically random 32-character lowercase
// hexadecimal token.
func NewSecret() (string, error) {
	b := make([]byte, SecretLength/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// IsSecret reports whether s is a valid 32-character lowercase hex token.
func IsSecret(s string) bool {
	return secretPattern.MatchString(s)
}
