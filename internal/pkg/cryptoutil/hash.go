package cryptoutil

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"regexp"
)

// ErrInvalidTokenFormat is returned when a presented token string does not
// match the PREFIX-CORE pattern and can be rejected without touching
// storage.
var ErrInvalidTokenFormat = errors.New("cryptoutil: token does not match PREFIX-CORE format")

var tokenPattern = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{8}$`)

// Parse splits a presented token string into its prefix and core parts,
// validating the wire pattern before any storage access.
func Parse(fullToken string) (prefix, core string, err error) {
	if !tokenPattern.MatchString(fullToken) {
		return "", "", ErrInvalidTokenFormat
	}
	return fullToken[:PrefixLength], fullToken[PrefixLength+1:], nil
}

// Hash computes H(plaintext, salt) = SHA256(pepper || plaintext || salt).
// pepper is the process-wide secret; salt is the per-token random value
// persisted alongside the row.
func Hash(pepper []byte, plaintext string, salt []byte) []byte {
	h := sha256.New()
	h.Write(pepper)
	h.Write([]byte(plaintext))
	h.Write(salt)
	return h.Sum(nil)
}

// Equal compares two hashes in constant time to avoid leaking timing
// information about a near-miss versus a far-miss candidate.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
