package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if hash == "correct horse battery" {
		t.Error("Hash should not equal the plain password")
	}
	if !VerifyPassword(hash, "correct horse battery") {
		t.Error("VerifyPassword() should accept the original password")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Error("VerifyPassword() should reject a wrong password")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "whatever") {
		t.Error("VerifyPassword() should reject a malformed hash")
	}
}
