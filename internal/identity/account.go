// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package identity

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested account does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a staged insert collides with a storage-level
// uniqueness constraint. The constraint is the true guard against concurrent
// registrations; the eligibility check only produces the friendly error.
var ErrDuplicate = errors.New("duplicate account")

// Account is an identity record. ID is the surrogate key assigned at
// persistence time; it is zero before the first SaveChanges. Accounts are
// created only by Registration.NewAccount and never mutated afterwards.
type Account struct {
	ID           int64
	Username     Username
	Email        Email
	PasswordHash string
	PasswordSalt string
	CreatedAt    time.Time
}

// AccountRepository manages account persistence. Lookups match the stored
// normalized value case-sensitively; normalization already happened at the
// value-object boundary.
type AccountRepository interface {
	// GetByUsername retrieves an account by username.
	// Returns ErrNotFound if no account matches.
	GetByUsername(ctx context.Context, username Username) (*Account, error)

	// GetByID retrieves an account by its surrogate id.
	// Returns ErrNotFound if no account matches.
	GetByID(ctx context.Context, id int64) (*Account, error)

	// UsernameExists reports whether an account with the username exists.
	UsernameExists(ctx context.Context, username Username) (bool, error)

	// EmailExists reports whether an account with the email exists.
	EmailExists(ctx context.Context, email Email) (bool, error)

	// Add stages an insert. Nothing is durable until SaveChanges commits.
	Add(account *Account)
}

// UnitOfWork commits the writes staged during one request.
type UnitOfWork interface {
	// SaveChanges atomically applies all staged writes and returns the number
	// of rows affected. Staged inserts that collide with a uniqueness
	// constraint surface as ErrDuplicate and leave no durable effect.
	SaveChanges(ctx context.Context) (int64, error)
}
