package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	ps := NewPasswordServiceForTest(bcrypt.MinCost)

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("Hash() returned the plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash %q doesn't look like bcrypt output", hash)
	}

	if err := ps.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() with the right password error = %v", err)
	}
	if err := ps.Verify(hash, "wrong password"); err == nil {
		t.Error("Verify() accepted the wrong password")
	}
}

func TestHash_SaltsDiffer(t *testing.T) {
	ps := NewPasswordServiceForTest(bcrypt.MinCost)

	h1, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// Each hash embeds a fresh random salt.
	if h1 == h2 {
		t.Error("two hashes of the same password are identical")
	}
}

func TestHash_TooLong(t *testing.T) {
	ps := NewPasswordServiceForTest(bcrypt.MinCost)

	if _, err := ps.Hash(strings.Repeat("a", 73)); err == nil {
		t.Fatal("Hash() accepted a 73-byte password, want error (bcrypt truncates at 72)")
	}
}

func TestVerify_BadHash(t *testing.T) {
	ps := NewPasswordServiceForTest(bcrypt.MinCost)

	if err := ps.Verify("not-a-bcrypt-hash", "whatever"); err == nil {
		t.Fatal("Verify() accepted a malformed hash")
	}
}
