// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package identity

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// Registration enforces the account uniqueness invariant and builds new
// accounts. The existence checks and the later insert are separate storage
// round-trips with no locking between them; the storage-level unique
// constraints remain the source of truth under concurrent registrations.
type Registration struct {
	accounts AccountRepository
}

// NewRegistration creates a Registration service.
func NewRegistration(accounts AccountRepository) (*Registration, error) {
	if accounts == nil {
		return nil, oops.Errorf("accounts repository is required")
	}
	return &Registration{accounts: accounts}, nil
}

// CanRegister reports whether an account with the given username and email
// may be created. Checks username first and short-circuits, so when both
// collide the username-taken reason wins. The returned reason is empty when
// registration is allowed.
func (r *Registration) CanRegister(ctx context.Context, username Username, email Email) (bool, string, error) {
	taken, err := r.accounts.UsernameExists(ctx, username)
	if err != nil {
		return false, "", oops.Code("REGISTRATION_CHECK_FAILED").
			With("operation", "username exists").
			Wrap(err)
	}
	if taken {
		return false, "username is already taken", nil
	}

	taken, err = r.accounts.EmailExists(ctx, email)
	if err != nil {
		return false, "", oops.Code("REGISTRATION_CHECK_FAILED").
			With("operation", "email exists").
			Wrap(err)
	}
	if taken {
		return false, "email is already registered", nil
	}

	return true, "", nil
}

// NewAccount constructs an unpersisted account from validated values and
// opaque credential material. Pure; performs no I/O.
func NewAccount(username Username, email Email, hash, salt string) *Account {
	return &Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    time.Now(),
	}
}
