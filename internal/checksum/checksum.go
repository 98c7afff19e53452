// Package checksum provides the digest helper used for chart revision
// tags and for skipping redundant workspace autosaves.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Short returns the first 12 hex characters of the digest, enough to act
// as a human-readable revision tag.
func Short(data []byte) string {
	return Sum(data)[:12]
}
