package util

import (
	"crypto/sha256"
	"fmt"
)

// HashContent returns the SHA-256 hex digest of an item's canonical
// content string. Identical content always hashes identically; the store
// keys its dedup lookup on this.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", sum)
}
