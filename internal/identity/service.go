// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package identity

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/quayside/quayside/internal/result"
)

// loginFailedMessage is deliberately identical for unknown usernames and
// wrong passwords to avoid username enumeration.
const loginFailedMessage = "invalid username or password"

// dummy credential material verified when a username does not exist, so the
// response time does not reveal whether the lookup succeeded. These never
// match any real password.
var (
	dummyPasswordHash = base64.StdEncoding.EncodeToString(make([]byte, pbkdf2KeyLen))
	dummyPasswordSalt = base64.StdEncoding.EncodeToString(make([]byte, pbkdf2SaltLen))
)

// RegisterRequest carries raw registration input.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest carries raw login input.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountSummary is the wire view of an account.
type AccountSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthPayload is the wire view of a successful register or login.
type AuthPayload struct {
	Token   string         `json:"token"`
	Account AccountSummary `json:"account"`
}

// Service orchestrates the identity use cases. Every failure is terminal
// and reported immediately; nothing is retried.
type Service struct {
	accounts     AccountRepository
	uow          UnitOfWork
	registration *Registration
	hasher       PasswordHasher
	issuer       TokenIssuer
	publisher    *Publisher
	logger       *slog.Logger
}

// NewService creates a Service. The publisher is optional and may be nil;
// everything else is required.
func NewService(
	accounts AccountRepository,
	uow UnitOfWork,
	hasher PasswordHasher,
	issuer TokenIssuer,
	publisher *Publisher,
	logger *slog.Logger,
) (*Service, error) {
	if accounts == nil {
		return nil, oops.Errorf("accounts repository is required")
	}
	if uow == nil {
		return nil, oops.Errorf("unit of work is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if issuer == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	registration, err := NewRegistration(accounts)
	if err != nil {
		return nil, err
	}

	return &Service{
		accounts:     accounts,
		uow:          uow,
		registration: registration,
		hasher:       hasher,
		issuer:       issuer,
		publisher:    publisher,
		logger:       logger,
	}, nil
}

// Register creates a new account and issues its first bearer token.
func (s *Service) Register(ctx context.Context, req RegisterRequest) result.Result[AuthPayload] {
	username, err := NewUsername(req.Username)
	if err != nil {
		return result.Fail[AuthPayload](result.KindValidation, err.Error())
	}
	email, err := NewEmail(req.Email)
	if err != nil {
		return result.Fail[AuthPayload](result.KindValidation, err.Error())
	}

	allowed, reason, err := s.registration.CanRegister(ctx, username, email)
	if err != nil {
		s.logger.Error("registration eligibility check failed", "username", username.String(), "error", err)
		return result.Fail[AuthPayload](result.KindBadRequest, "could not complete registration")
	}
	if !allowed {
		return result.Fail[AuthPayload](result.KindConflict, reason)
	}

	hash, salt, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, ErrEmptyPassword) {
			return result.Fail[AuthPayload](result.KindValidation, err.Error())
		}
		s.logger.Error("password hashing failed", "username", username.String(), "error", err)
		return result.Fail[AuthPayload](result.KindBadRequest, "could not complete registration")
	}

	account := NewAccount(username, email, hash, salt)
	s.accounts.Add(account)

	if _, err := s.uow.SaveChanges(ctx); err != nil {
		// The unique constraint is the real guard: a concurrent registration
		// may have won the race after the eligibility check passed.
		if errors.Is(err, ErrDuplicate) {
			return result.Fail[AuthPayload](result.KindConflict, "username or email is already taken")
		}
		s.logger.Error("registration commit failed", "username", username.String(), "error", err)
		return result.Fail[AuthPayload](result.KindBadRequest, "could not complete registration")
	}

	token, err := s.issuer.Generate(account)
	if err != nil {
		s.logger.Error("token issuance failed", "account_id", account.ID, "error", err)
		return result.Fail[AuthPayload](result.KindBadRequest, "could not complete registration")
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, NewAccountRegistered(account))
	}

	s.logger.Info("account registered", "account_id", account.ID, "username", username.String())

	return result.Ok(AuthPayload{Token: token, Account: summarize(account)})
}

// Login authenticates an account and issues a bearer token.
func (s *Service) Login(ctx context.Context, req LoginRequest) result.Result[AuthPayload] {
	username, err := NewUsername(req.Username)
	if err != nil {
		return result.Fail[AuthPayload](result.KindValidation, err.Error())
	}

	account, lookupErr := s.accounts.GetByUsername(ctx, username)

	// Verify against dummy material when the account is absent so response
	// time stays consistent.
	targetHash, targetSalt := dummyPasswordHash, dummyPasswordSalt
	exists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			s.logger.Error("account lookup failed", "username", username.String(), "error", lookupErr)
			return result.Fail[AuthPayload](result.KindBadRequest, "could not complete login")
		}
	} else {
		targetHash, targetSalt = account.PasswordHash, account.PasswordSalt
		exists = true
	}

	valid, err := s.hasher.Verify(req.Password, targetHash, targetSalt)
	if err != nil {
		if !exists {
			return result.Fail[AuthPayload](result.KindUnauthorized, loginFailedMessage)
		}
		s.logger.Error("password verification failed", "username", username.String(), "error", err)
		return result.Fail[AuthPayload](result.KindBadRequest, "could not complete login")
	}
	if !exists || !valid {
		return result.Fail[AuthPayload](result.KindUnauthorized, loginFailedMessage)
	}

	token, err := s.issuer.Generate(account)
	if err != nil {
		s.logger.Error("token issuance failed", "account_id", account.ID, "error", err)
		return result.Fail[AuthPayload](result.KindBadRequest, "could not complete login")
	}

	s.logger.Info("account logged in", "account_id", account.ID)

	return result.Ok(AuthPayload{Token: token, Account: summarize(account)})
}

// CurrentUser returns the account summary for an already-authenticated
// subject id. Token verification happens upstream in the transport layer.
func (s *Service) CurrentUser(ctx context.Context, accountID int64) result.Result[AccountSummary] {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return result.Fail[AccountSummary](result.KindNotFound, "account not found")
		}
		s.logger.Error("account lookup failed", "account_id", accountID, "error", err)
		return result.Fail[AccountSummary](result.KindBadRequest, "could not load account")
	}
	return result.Ok(summarize(account))
}

func summarize(account *Account) AccountSummary {
	return AccountSummary{
		ID:       account.ID,
		Username: account.Username.String(),
		Email:    account.Email.String(),
	}
}
