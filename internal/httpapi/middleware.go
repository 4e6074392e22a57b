// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quayside/quayside/internal/observability"
	"github.com/quayside/quayside/internal/result"
)

type contextKey string

// subjectKey carries the authenticated account id through the request
// context.
const subjectKey contextKey = "subject"

// SubjectFromContext returns the authenticated subject id injected by
// RequireAuth.
func SubjectFromContext(ctx context.Context) (int64, bool) {
	subject, ok := ctx.Value(subjectKey).(int64)
	return subject, ok
}

// RequireAuth verifies the bearer token and injects the subject id. Requests
// without a valid token are rejected with the standard error envelope.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeUnauthorized(w)
			return
		}

		subject, err := h.verifier.Parse(token)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck // nothing left to do if the reject itself fails
	json.NewEncoder(w).Encode(result.ErrorEnvelope{
		Message:   "missing or invalid token",
		ErrorCode: string(result.KindUnauthorized),
	})
}

// RequestLogger logs one line per request with method, path, status, and
// duration, and records the request counter when metrics are wired.
func RequestLogger(logger *slog.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			if metrics != nil {
				route := chi.RouteContext(r.Context()).RoutePattern()
				if route == "" {
					route = r.URL.Path
				}
				metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
			}
		})
	}
}
