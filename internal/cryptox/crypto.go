// Package cryptox implements password salting and hashing for stored
// credentials. Passwords are never persisted; only (salt, hash) pairs are.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/vaxscheduler/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length of a freshly generated per-account salt.
	SaltSize = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewSalt returns a random per-account salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// HashPassword derives the stored password hash from password and salt
// using argon2id.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword recomputes the hash with the stored salt and compares it to
// the stored hash in constant time.
func VerifyPassword(password, salt, hash []byte) bool {
	candidate := HashPassword(password, salt)
	defer common.WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
