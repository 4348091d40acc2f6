package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrHashingFailed = errors.New("token hashing failed")

// TokenHasher provides interface for confirmation token operations.
// Tokens are hashed before persistence so a leaked record cannot be
// replayed as a confirmation link.
type TokenHasher interface {
	Hash(token string) (string, error)
	Compare(hashedToken, token string) error
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new token hasher using bcrypt
func NewBcryptHasher(cost int) TokenHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Hash(token string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(token), b.cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Compare(hashedToken, token string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(token))
}
