// Package crypto provides password hashing for the credential boundary.
package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a plaintext password into a salted hash and verifies
// candidates against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// Bcrypt is a PasswordHasher backed by bcrypt. A zero Cost means bcrypt.DefaultCost.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hash), err
}

func (b Bcrypt) Verify(hash, password string) bool {
	return CheckPasswordHash(hash, password)
}

// HashPasswordAsBcrypt generates a bcrypt hash of the given password.
func HashPasswordAsBcrypt(password string) (string, error) {
	return Bcrypt{}.Hash(password)
}

// CheckPasswordHash verifies if the given password matches the bcrypt hash.
func CheckPasswordHash(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
