// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package identity

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"

	"github.com/samber/oops"
	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2-HMAC-SHA512 parameters.
const (
	pbkdf2Iterations = 210_000
	pbkdf2SaltLen    = 64 // salt doubles as the HMAC key
	pbkdf2KeyLen     = 64
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("IDENTITY_EMPTY_PASSWORD").Errorf("password cannot be empty")

// PasswordHasher provides one-way salted password hashing and verification.
type PasswordHasher interface {
	// Hash derives a keyed hash of the password under a fresh random salt.
	// Two calls with the same password yield different (hash, salt) pairs.
	Hash(password string) (hash, salt string, err error)

	// Verify recomputes the keyed hash under the supplied salt and compares
	// it to hash in constant time. Malformed hash or salt encodings yield
	// (false, nil); an empty hash or salt argument is a programming error
	// and fails fast.
	Verify(password, hash, salt string) (bool, error)
}

// PBKDF2Hasher implements PasswordHasher using PBKDF2 over HMAC-SHA512.
// Hash and salt are exchanged as standard base64 strings.
type PBKDF2Hasher struct{}

// NewPBKDF2Hasher creates a new PBKDF2Hasher.
func NewPBKDF2Hasher() *PBKDF2Hasher {
	return &PBKDF2Hasher{}
}

// Hash derives a keyed hash of the password under a fresh random salt.
func (h *PBKDF2Hasher) Hash(password string) (string, string, error) {
	if password == "" {
		return "", "", ErrEmptyPassword
	}

	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", "", oops.Code("IDENTITY_SALT_FAILED").Wrap(err)
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha512.New)

	return base64.StdEncoding.EncodeToString(key),
		base64.StdEncoding.EncodeToString(salt),
		nil
}

// Verify recomputes the keyed hash under the supplied salt and compares it
// to hash in constant time.
func (h *PBKDF2Hasher) Verify(password, hash, salt string) (bool, error) {
	if hash == "" {
		return false, oops.Code("IDENTITY_EMPTY_HASH").Errorf("hash cannot be empty")
	}
	if salt == "" {
		return false, oops.Code("IDENTITY_EMPTY_SALT").Errorf("salt cannot be empty")
	}

	expected, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return false, nil
	}
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return false, nil
	}

	computed := pbkdf2.Key([]byte(password), saltBytes, pbkdf2Iterations, pbkdf2KeyLen, sha512.New)

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

// Compile-time interface check.
var _ PasswordHasher = (*PBKDF2Hasher)(nil)
