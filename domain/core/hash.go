package core

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Hash is a hex-encoded SHA-256 digest. Dataset loads carry one so re-loads
// of identical source data are recognizable in the catalog.
type Hash string

// NewHash hashes a byte slice
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashReader hashes everything read from r, for sources too large to slurp.
func HashReader(r io.Reader) (Hash, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return Hash(hex.EncodeToString(h.Sum(nil))), nil
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}
