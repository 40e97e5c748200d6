package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key joins an operation's argument tuple into a single cache key.
// Parts are separated by NUL so ("a", "b@c") and ("a@b", "c") differ.
func Key(parts ...string) string {
	return strings.Join(parts, "\x00")
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
