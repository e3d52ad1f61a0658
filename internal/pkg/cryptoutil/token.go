// Package cryptoutil implements the CSPRNG token generation, salted/peppered
// hashing, and constant-time comparison primitives shared by the token
// service.
package cryptoutil

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// alphabet is the 36-symbol set tokens are drawn from: uppercase Latin
// letters and digits.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	PrefixLength = 4
	CoreLength   = 8
)

var alphabetSize = big.NewInt(int64(len(alphabet)))

// randomSymbols draws n symbols uniformly from alphabet using rejection
// sampling against crypto/rand, never modulo-folding a byte (which would
// bias the distribution because 256 is not a multiple of 36).
func randomSymbols(n int) (string, error) {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("cryptoutil: draw symbol: %w", err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}

// GenerateSalt returns a fresh 16-byte per-token salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("cryptoutil: generate salt: %w", err)
	}
	return salt, nil
}

// Token is a freshly minted plaintext withdrawal token: a non-secret
// lookup prefix and a high-entropy core, formatted PREFIX-CORE.
type Token struct {
	Prefix    string
	Core      string
	Plaintext string
}

// GenerateToken draws a fresh PREFIX-CORE token string. CORE alone carries
// log2(36^8) ≈ 41.4 bits of entropy, meeting the ≥41-bit floor.
func GenerateToken() (Token, error) {
	prefix, err := randomSymbols(PrefixLength)
	if err != nil {
		return Token{}, err
	}
	core, err := randomSymbols(CoreLength)
	if err != nil {
		return Token{}, err
	}
	return Token{
		Prefix:    prefix,
		Core:      core,
		Plaintext: prefix + "-" + core,
	}, nil
}
