// Package auth derives and verifies password credentials and runs
// registration and login on top of the ledger store.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen    = 16
	keyLen     = 32
	iterations = 200_000
)

// DeriveCredentials generates a random 16-byte salt and derives the
// password hash with PBKDF2-HMAC-SHA256 over the UTF-8 password bytes.
func DeriveCredentials(password string) (salt, hash []byte, err error) {
	salt = make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, deriveHash(password, salt), nil
}

// deriveHash is deterministic for a given (password, salt) pair.
func deriveHash(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
}

// VerifyPassword re-derives with the stored salt and compares in
// constant time so the comparison cannot leak a matching prefix.
func VerifyPassword(password string, salt, expected []byte) bool {
	derived := deriveHash(password, salt)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}
