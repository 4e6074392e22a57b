// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

// Package mocks provides testify mocks for the identity contracts.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/quayside/quayside/internal/identity"
)

// MockAccountStore mocks identity.AccountRepository and identity.UnitOfWork.
type MockAccountStore struct {
	mock.Mock
}

// NewMockAccountStore creates a MockAccountStore with expectations asserted
// at test cleanup.
func NewMockAccountStore(t *testing.T) *MockAccountStore {
	t.Helper()
	m := &MockAccountStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccountStore) GetByUsername(ctx context.Context, username identity.Username) (*identity.Account, error) {
	args := m.Called(ctx, username)
	account, _ := args.Get(0).(*identity.Account)
	return account, args.Error(1)
}

func (m *MockAccountStore) GetByID(ctx context.Context, id int64) (*identity.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*identity.Account)
	return account, args.Error(1)
}

func (m *MockAccountStore) UsernameExists(ctx context.Context, username identity.Username) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountStore) EmailExists(ctx context.Context, email identity.Email) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountStore) Add(account *identity.Account) {
	m.Called(account)
}

func (m *MockAccountStore) SaveChanges(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPasswordHasher mocks identity.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a MockPasswordHasher with expectations
// asserted at test cleanup.
func NewMockPasswordHasher(t *testing.T) *MockPasswordHasher {
	t.Helper()
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, string, error) {
	args := m.Called(password)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockPasswordHasher) Verify(password, hash, salt string) (bool, error) {
	args := m.Called(password, hash, salt)
	return args.Bool(0), args.Error(1)
}

// MockTokenIssuer mocks identity.TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// NewMockTokenIssuer creates a MockTokenIssuer with expectations asserted
// at test cleanup.
func NewMockTokenIssuer(t *testing.T) *MockTokenIssuer {
	t.Helper()
	m := &MockTokenIssuer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTokenIssuer) Generate(account *identity.Account) (string, error) {
	args := m.Called(account)
	return args.String(0), args.Error(1)
}

// Compile-time interface checks.
var (
	_ identity.AccountRepository = (*MockAccountStore)(nil)
	_ identity.UnitOfWork        = (*MockAccountStore)(nil)
	_ identity.PasswordHasher    = (*MockPasswordHasher)(nil)
	_ identity.TokenIssuer       = (*MockTokenIssuer)(nil)
)
