package cryptoutil

import (
	"bytes"
	"regexp"
	"testing"
)

func TestGenerateTokenFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		tok, err := GenerateToken()
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		if !pattern.MatchString(tok.Plaintext) {
			t.Fatalf("token %q does not match expected pattern", tok.Plaintext)
		}
		if seen[tok.Plaintext] {
			t.Fatalf("unexpected collision generating 200 tokens: %q", tok.Plaintext)
		}
		seen[tok.Plaintext] = true
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{
		"abc-xyz",
		"ABCD1234",
		"ABCDE-12345678",
		"ABC-12345678",
		"ABCD-1234567",
		"ABCD-123456789",
		"",
	}
	for _, c := range cases {
		if _, _, err := Parse(c); err != ErrInvalidTokenFormat {
			t.Fatalf("Parse(%q): expected ErrInvalidTokenFormat, got %v", c, err)
		}
	}
}

func TestParseAcceptsWellFormed(t *testing.T) {
	prefix, core, err := Parse("AB12-CDEF5678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefix != "AB12" || core != "CDEF5678" {
		t.Fatalf("unexpected split: prefix=%q core=%q", prefix, core)
	}
}

func TestHashDeterministicAndSensitiveToInputs(t *testing.T) {
	pepper := []byte("pepper-value")
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}

	h1 := Hash(pepper, "AB12-CDEF5678", salt)
	h2 := Hash(pepper, "AB12-CDEF5678", salt)
	if !bytes.Equal(h1, h2) {
		t.Fatalf("hash is not deterministic for identical inputs")
	}

	h3 := Hash(pepper, "AB12-CDEF5679", salt)
	if bytes.Equal(h1, h3) {
		t.Fatalf("hash did not change with plaintext")
	}

	otherSalt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	h4 := Hash(pepper, "AB12-CDEF5678", otherSalt)
	if bytes.Equal(h1, h4) {
		t.Fatalf("hash did not change with salt")
	}
}

func TestEqualConstantTime(t *testing.T) {
	a := []byte{1, 2, 3, 4}
	b := []byte{1, 2, 3, 4}
	c := []byte{1, 2, 3, 5}

	if !Equal(a, b) {
		t.Fatalf("expected equal hashes to compare equal")
	}
	if Equal(a, c) {
		t.Fatalf("expected differing hashes to compare unequal")
	}
	if Equal(a, []byte{1, 2, 3}) {
		t.Fatalf("expected differing lengths to compare unequal")
	}
}
