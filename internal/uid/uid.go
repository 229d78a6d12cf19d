// Package uid derives stable identifiers for catalog entities.
package uid

import (
	"crypto/sha1"
	"encoding/hex"
)

// FromString returns the hex SHA-1 digest of s. Series, chapter and page IDs
// are derived from their URLs so the same entity always maps to the same ID.
func FromString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}
