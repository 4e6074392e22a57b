// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

// Package result defines the typed outcome pipeline that maps domain
// successes and failures onto transport-level responses.
package result

import "net/http"

// Kind classifies a failure. The set is closed: every kind has exactly one
// HTTP status, and an unmapped kind is a defect.
type Kind string

const (
	KindValidation   Kind = "Validation"
	KindConflict     Kind = "Conflict"
	KindUnauthorized Kind = "Unauthorized"
	KindNotFound     Kind = "NotFound"
	KindBadRequest   Kind = "BadRequest"
)

// HTTPStatus returns the transport status code for a failure kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		// Unmapped kinds are programming errors. Render as a server fault
		// rather than leaking an arbitrary status.
		return http.StatusInternalServerError
	}
}

// Failure is the error branch of a Result.
type Failure struct {
	Message string
	Kind    Kind
}

// Result is a tagged outcome: either a success value or a Failure. Exactly
// one branch is populated.
type Result[T any] struct {
	value   T
	failure *Failure
}

// Ok wraps a success value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail wraps a failure with the given kind and message.
func Fail[T any](kind Kind, message string) Result[T] {
	return Result[T]{failure: &Failure{Message: message, Kind: kind}}
}

// IsOk reports whether the result holds a success value.
func (r Result[T]) IsOk() bool {
	return r.failure == nil
}

// Value returns the success value. Only meaningful when IsOk is true.
func (r Result[T]) Value() T {
	return r.value
}

// Failure returns the failure branch, or nil for a success.
func (r Result[T]) Failure() *Failure {
	return r.failure
}

// SuccessEnvelope is the wire shape of a successful response.
type SuccessEnvelope[T any] struct {
	Data    T    `json:"data"`
	Success bool `json:"success"`
}

// ErrorEnvelope is the wire shape of a failed response. ErrorCode carries
// the failure kind's name.
type ErrorEnvelope struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

// Envelope renders the result as its wire envelope and status code.
// Successes yield a SuccessEnvelope with HTTP 200; failures yield an
// ErrorEnvelope with the kind's status.
func (r Result[T]) Envelope() (status int, body any) {
	if r.failure != nil {
		return r.failure.Kind.HTTPStatus(), ErrorEnvelope{
			Message:   r.failure.Message,
			ErrorCode: string(r.failure.Kind),
		}
	}
	return http.StatusOK, SuccessEnvelope[T]{Data: r.value, Success: true}
}
