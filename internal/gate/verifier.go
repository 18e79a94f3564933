package gate

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Verifier decides whether a submitted credential is correct.
type Verifier interface {
	Verify(attempt string) bool
	// Plaintext reports whether the expected credential is stored unhashed.
	Plaintext() bool
}

// Plaintext matches by exact string equality.
type Plaintext struct {
	Expected string
}

// Verify reports whether attempt equals the expected value exactly.
func (p Plaintext) Verify(attempt string) bool {
	return attempt == p.Expected
}

// Plaintext always reports true.
func (p Plaintext) Plaintext() bool { return true }

// Bcrypt matches against a bcrypt hash.
type Bcrypt struct {
	hash []byte
}

// NewBcrypt validates hash and returns a verifier for it.
func NewBcrypt(hash string) (*Bcrypt, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid bcrypt hash: %w", err)
	}
	return &Bcrypt{hash: []byte(hash)}, nil
}

// Verify reports whether attempt hashes to the stored value.
func (b *Bcrypt) Verify(attempt string) bool {
	return bcrypt.CompareHashAndPassword(b.hash, []byte(attempt)) == nil
}

// Plaintext always reports false.
func (b *Bcrypt) Plaintext() bool { return false }

// HashPassword returns a bcrypt hash of password suitable for NewBcrypt.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}
