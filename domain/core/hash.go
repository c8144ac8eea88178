package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// SampleHash fingerprints the encoded bytes of one submitted image.
// Used only for log correlation, never for caching or persistence.
type SampleHash Hash

// NewSampleHash fingerprints raw encoded image bytes.
func NewSampleHash(data []byte) SampleHash { return SampleHash(NewHash(data)) }

// String returns the full hex digest.
func (h SampleHash) String() string { return Hash(h).String() }

// Short returns the first 12 hex characters for log lines.
func (h SampleHash) Short() string {
	s := Hash(h).String()
	if len(s) > 12 {
		return s[:12]
	}
	return s
}
