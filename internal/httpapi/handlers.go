// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

// Package httpapi is the thin HTTP transport over the identity core. It
// deserializes requests, invokes the use-case handlers, and renders their
// typed results through the envelope pipeline; no domain logic lives here.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/quayside/quayside/internal/identity"
	"github.com/quayside/quayside/internal/observability"
	"github.com/quayside/quayside/internal/result"
)

// AccountStore combines the repository and unit-of-work contracts an
// identity.Service needs. The postgres.AccountStore satisfies it.
type AccountStore interface {
	identity.AccountRepository
	identity.UnitOfWork
}

// StoreFactory builds a fresh AccountStore per request. Staged writes are
// request-scoped, so stores must not be shared across requests.
type StoreFactory func() AccountStore

// TokenVerifier extracts the authenticated subject id from a bearer token.
type TokenVerifier interface {
	Parse(token string) (int64, error)
}

// Handlers holds the route handlers for the identity API.
type Handlers struct {
	stores    StoreFactory
	hasher    identity.PasswordHasher
	issuer    identity.TokenIssuer
	verifier  TokenVerifier
	publisher *identity.Publisher
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewHandlers creates the API handlers. The publisher and metrics are
// optional and may be nil.
func NewHandlers(
	stores StoreFactory,
	hasher identity.PasswordHasher,
	issuer identity.TokenIssuer,
	verifier TokenVerifier,
	publisher *identity.Publisher,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		stores:    stores,
		hasher:    hasher,
		issuer:    issuer,
		verifier:  verifier,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// service builds a request-scoped identity service.
func (h *Handlers) service() (*identity.Service, error) {
	store := h.stores()
	return identity.NewService(store, store, h.hasher, h.issuer, h.publisher, h.logger)
}

// Register handles POST /api/auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req identity.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, result.Fail[identity.AuthPayload](result.KindBadRequest, "invalid request body"))
		return
	}

	svc, err := h.service()
	if err != nil {
		h.logger.Error("service construction failed", "error", err)
		writeResult(w, result.Fail[identity.AuthPayload](result.KindBadRequest, "could not complete registration"))
		return
	}

	writeResult(w, svc.Register(r.Context(), req))
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req identity.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, result.Fail[identity.AuthPayload](result.KindBadRequest, "invalid request body"))
		return
	}

	svc, err := h.service()
	if err != nil {
		h.logger.Error("service construction failed", "error", err)
		writeResult(w, result.Fail[identity.AuthPayload](result.KindBadRequest, "could not complete login"))
		return
	}

	res := svc.Login(r.Context(), req)
	if h.metrics != nil {
		status := "ok"
		if !res.IsOk() {
			status = "failed"
		}
		h.metrics.LoginsTotal.WithLabelValues(status).Inc()
	}
	writeResult(w, res)
}

// Me handles GET /api/auth/me. RequireAuth has already verified the token
// and injected the subject id.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	subject, ok := SubjectFromContext(r.Context())
	if !ok {
		writeResult(w, result.Fail[identity.AccountSummary](result.KindUnauthorized, "missing or invalid token"))
		return
	}

	svc, err := h.service()
	if err != nil {
		h.logger.Error("service construction failed", "error", err)
		writeResult(w, result.Fail[identity.AccountSummary](result.KindBadRequest, "could not load account"))
		return
	}

	writeResult(w, svc.CurrentUser(r.Context(), subject))
}

// writeResult renders a result as its JSON envelope.
func writeResult[T any](w http.ResponseWriter, res result.Result[T]) {
	status, body := res.Envelope()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("response encoding failed", "status", strconv.Itoa(status), "error", err)
	}
}
