// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

// Package identity implements the Quayside identity core.
//
// # Value Objects
//
// Username and Email are immutable, self-validating wrappers around raw
// input. Construct them with NewUsername and NewEmail; a value obtained from
// either constructor is always well-formed and already normalized. TryUsername
// and TryEmail are non-failing variants for optional paths.
//
// # Services
//
// Service types coordinate the use cases:
//   - Service - register, login, current-user lookup
//   - Registration - uniqueness eligibility and account construction
//
// Accounts are created only through Registration after uniqueness has been
// confirmed, persisted exactly once through an AccountRepository, and never
// mutated afterwards. The repository stages writes; UnitOfWork.SaveChanges is
// the single commit point per request.
package identity
