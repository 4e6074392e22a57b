// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

// Package postgres implements the identity repository contracts using
// PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/quayside/quayside/internal/identity"
)

// poolIface abstracts the pgx pool operations the store needs, so tests can
// substitute pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// AccountStore implements identity.AccountRepository and identity.UnitOfWork.
// Reads go straight to the pool; Add stages inserts in memory until
// SaveChanges commits them in one transaction. Create one store per request:
// staged writes are not safe to share across requests.
type AccountStore struct {
	pool    poolIface
	pending []*identity.Account
}

// NewAccountStore creates an AccountStore on the given pool.
func NewAccountStore(pool poolIface) *AccountStore {
	return &AccountStore{pool: pool}
}

// GetByUsername retrieves an account by its normalized username.
func (s *AccountStore) GetByUsername(ctx context.Context, username identity.Username) (*identity.Account, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, password_salt, created_at
		FROM accounts
		WHERE username = $1
	`, username.String())

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("username", username.String()).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_USERNAME_FAILED").
			With("operation", "get account by username").
			With("username", username.String()).
			Wrap(err)
	}
	return account, nil
}

// GetByID retrieves an account by its surrogate id.
func (s *AccountStore) GetByID(ctx context.Context, id int64) (*identity.Account, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, password_salt, created_at
		FROM accounts
		WHERE id = $1
	`, id)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("id", id).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_ID_FAILED").
			With("operation", "get account by id").
			With("id", id).
			Wrap(err)
	}
	return account, nil
}

// UsernameExists reports whether an account with the username exists.
func (s *AccountStore) UsernameExists(ctx context.Context, username identity.Username) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)
	`, username.String()).Scan(&exists)
	if err != nil {
		return false, oops.Code("ACCOUNT_EXISTS_FAILED").
			With("operation", "username exists").
			With("username", username.String()).
			Wrap(err)
	}
	return exists, nil
}

// EmailExists reports whether an account with the email exists.
func (s *AccountStore) EmailExists(ctx context.Context, email identity.Email) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)
	`, email.String()).Scan(&exists)
	if err != nil {
		return false, oops.Code("ACCOUNT_EXISTS_FAILED").
			With("operation", "email exists").
			With("email", email.String()).
			Wrap(err)
	}
	return exists, nil
}

// Add stages an account insert for the next SaveChanges.
func (s *AccountStore) Add(account *identity.Account) {
	s.pending = append(s.pending, account)
}

// SaveChanges inserts all staged accounts in one transaction and assigns
// their surrogate ids. Returns the number of rows affected. A uniqueness
// violation surfaces as identity.ErrDuplicate and nothing is committed.
func (s *AccountStore) SaveChanges(ctx context.Context) (int64, error) {
	if len(s.pending) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, oops.Code("ACCOUNT_SAVE_FAILED").
			With("operation", "begin transaction").
			Wrap(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	for _, account := range s.pending {
		err := tx.QueryRow(ctx, `
			INSERT INTO accounts (username, email, password_hash, password_salt, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`,
			account.Username.String(),
			account.Email.String(),
			account.PasswordHash,
			account.PasswordSalt,
			account.CreatedAt,
		).Scan(&account.ID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return 0, oops.Code("ACCOUNT_DUPLICATE").
					With("constraint", pgErr.ConstraintName).
					With("username", account.Username.String()).
					Wrap(identity.ErrDuplicate)
			}
			return 0, oops.Code("ACCOUNT_SAVE_FAILED").
				With("operation", "insert account").
				With("username", account.Username.String()).
				Wrap(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, oops.Code("ACCOUNT_SAVE_FAILED").
			With("operation", "commit transaction").
			Wrap(err)
	}

	count := int64(len(s.pending))
	s.pending = nil
	return count, nil
}

// scanAccount scans a single row into an Account. Callers handle
// pgx.ErrNoRows.
func scanAccount(row pgx.Row) (*identity.Account, error) {
	var (
		id        int64
		username  string
		email     string
		hash      string
		salt      string
		createdAt time.Time
	)

	err := row.Scan(&id, &username, &email, &hash, &salt, &createdAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to wrap with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("ACCOUNT_SCAN_FAILED").
			With("operation", "scan account").
			Wrap(err)
	}

	// Stored values were normalized at the value-object boundary; rebuilding
	// through the constructors keeps the well-formedness invariant.
	u, err := identity.NewUsername(username)
	if err != nil {
		return nil, oops.Code("ACCOUNT_CORRUPT").
			With("username", username).
			Wrap(err)
	}
	e, err := identity.NewEmail(email)
	if err != nil {
		return nil, oops.Code("ACCOUNT_CORRUPT").
			With("email", email).
			Wrap(err)
	}

	return &identity.Account{
		ID:           id,
		Username:     u,
		Email:        e,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    createdAt,
	}, nil
}

// Compile-time interface checks.
var (
	_ identity.AccountRepository = (*AccountStore)(nil)
	_ identity.UnitOfWork        = (*AccountStore)(nil)
)
