package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptService(t *testing.T) {
	service := NewBcryptService(bcrypt.MinCost)

	t.Run("HashAndVerify", func(t *testing.T) {
		hash, err := service.Hash("secret123")
		if err != nil {
			t.Fatalf("Failed to hash: %v", err)
		}
		if hash == "" || hash == "secret123" {
			t.Error("Hash should be non-empty and opaque")
		}

		match, err := service.Verify("secret123", hash)
		if err != nil {
			t.Fatalf("Failed to verify: %v", err)
		}
		if !match {
			t.Error("Correct value should verify")
		}
	})

	t.Run("WrongValue", func(t *testing.T) {
		hash, err := service.Hash("secret123")
		if err != nil {
			t.Fatalf("Failed to hash: %v", err)
		}

		match, err := service.Verify("wrong", hash)
		if err != nil {
			t.Fatalf("Verify returned an error on mismatch: %v", err)
		}
		if match {
			t.Error("Wrong value should not verify")
		}
	})

	t.Run("EmptyValue", func(t *testing.T) {
		if _, err := service.Hash(""); err == nil {
			t.Error("Should fail to hash an empty value")
		}
	})

	t.Run("HashesDiffer", func(t *testing.T) {
		first, err := service.Hash("secret123")
		if err != nil {
			t.Fatalf("Failed to hash: %v", err)
		}
		second, err := service.Hash("secret123")
		if err != nil {
			t.Fatalf("Failed to hash: %v", err)
		}
		if first == second {
			t.Error("Salted hashes of the same value should differ")
		}
	})

	t.Run("TokenLengthInput", func(t *testing.T) {
		// Signed refresh tokens are several hundred bytes, well past the
		// 72-byte bcrypt limit.
		token := strings.Repeat("eyJhbGciOiJIUzI1NiJ9.", 20)

		hash, err := service.Hash(token)
		if err != nil {
			t.Fatalf("Failed to hash a token-length value: %v", err)
		}

		match, err := service.Verify(token, hash)
		if err != nil {
			t.Fatalf("Failed to verify a token-length value: %v", err)
		}
		if !match {
			t.Error("Token-length value should verify against its own hash")
		}

		match, err = service.Verify(token+"tampered", hash)
		if err != nil {
			t.Fatalf("Verify returned an error on mismatch: %v", err)
		}
		if match {
			t.Error("Tampered token should not verify")
		}
	})

	t.Run("VerifyDummyDoesNotPanic", func(t *testing.T) {
		service.VerifyDummy("anything")
		service.VerifyDummy(strings.Repeat("x", 200))
	})
}
