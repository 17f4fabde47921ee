package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordService hashes and checks passwords with bcrypt. The salt lives
// inside the digest, so nothing else needs to be stored.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService. Costs outside bcrypt's range
// fall back to bcrypt.DefaultCost.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordService{cost: cost}
}

// Hash returns a freshly salted digest of plaintext.
func (s *PasswordService) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &Error{Kind: KindValidationFailed, Message: "password is too long", Err: err}
	}
	if err != nil {
		return "", storageError("failed to hash password", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest is a mismatch.
func (s *PasswordService) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
