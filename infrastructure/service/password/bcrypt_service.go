package password

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a fixed bcrypt hash of random material. The login path compares
// against it when no account matched so the unknown-email branch still pays
// for one bcrypt verify.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// bcrypt rejects inputs longer than 72 bytes. Signed refresh tokens exceed
// that, so longer values are digested to a fixed-width SHA-256 form first.
const bcryptMaxInput = 72

// BcryptService hashes and verifies both passwords and refresh tokens with
// the same salted one-way primitive.
type BcryptService struct {
	cost int
}

func NewBcryptService(cost int) *BcryptService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptService{cost: cost}
}

func (s *BcryptService) Hash(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("value cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword(normalize(value), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash value: %w", err)
	}

	return string(hash), nil
}

func (s *BcryptService) Verify(value, hash string) (bool, error) {
	if value == "" || hash == "" {
		return false, fmt.Errorf("value and hash cannot be empty")
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), normalize(value))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return false, nil
		}
		return false, fmt.Errorf("failed to compare value: %w", err)
	}

	return true, nil
}

func (s *BcryptService) VerifyDummy(value string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), normalize(value))
}

func normalize(value string) []byte {
	if len(value) <= bcryptMaxInput {
		return []byte(value)
	}
	sum := sha256.Sum256([]byte(value))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
