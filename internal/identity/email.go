// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package identity

import (
	"regexp"
	"strings"

	"github.com/samber/oops"
)

// emailRegex requires a non-empty local part and a domain containing a dot.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email is a normalized, validated email address. Normalization trims
// surrounding whitespace and lower-cases the whole address.
type Email struct {
	value string
}

// NewEmail validates and normalizes a raw email address.
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Email{}, oops.Code("IDENTITY_INVALID_EMAIL").
			Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(normalized) {
		return Email{}, oops.Code("IDENTITY_INVALID_EMAIL").
			With("email", normalized).
			Errorf("email must look like local@domain.tld")
	}
	return Email{value: normalized}, nil
}

// TryEmail is the non-failing variant of NewEmail for optional paths.
func TryEmail(raw string) (Email, bool) {
	e, err := NewEmail(raw)
	return e, err == nil
}

// String returns the normalized value.
func (e Email) String() string {
	return e.value
}

// IsZero reports whether e is the zero (unconstructed) value.
func (e Email) IsZero() bool {
	return e.value == ""
}
