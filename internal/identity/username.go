// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package identity

import (
	"regexp"
	"strings"

	"github.com/samber/oops"
)

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// usernameRegex matches usernames containing only letters, numbers, and
// underscores.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Username is a normalized, validated account name. The zero value is not
// valid; obtain instances through NewUsername or TryUsername.
type Username struct {
	value string
}

// NewUsername validates and normalizes a raw username. Normalization trims
// surrounding whitespace and is idempotent.
func NewUsername(raw string) (Username, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Username{}, oops.Code("IDENTITY_INVALID_USERNAME").
			Errorf("username cannot be empty")
	}
	if len(trimmed) < MinUsernameLength {
		return Username{}, oops.Code("IDENTITY_INVALID_USERNAME").
			With("min", MinUsernameLength).
			Errorf("username must be at least %d characters", MinUsernameLength)
	}
	if len(trimmed) > MaxUsernameLength {
		return Username{}, oops.Code("IDENTITY_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(trimmed) {
		return Username{}, oops.Code("IDENTITY_INVALID_USERNAME").
			Errorf("username may contain only letters, numbers, and underscores")
	}
	return Username{value: trimmed}, nil
}

// TryUsername is the non-failing variant of NewUsername for optional paths.
func TryUsername(raw string) (Username, bool) {
	u, err := NewUsername(raw)
	return u, err == nil
}

// String returns the normalized value.
func (u Username) String() string {
	return u.value
}

// IsZero reports whether u is the zero (unconstructed) value.
func (u Username) IsZero() bool {
	return u.value == ""
}
