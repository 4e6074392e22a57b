// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package identity

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Token configuration defaults. The signing key has no default; it must be
// operator-supplied.
const (
	DefaultTokenIssuer   = "quayside"
	DefaultTokenAudience = "quayside-web"
	DefaultTokenTTL      = 24 * time.Hour
)

// TokenConfig is the immutable token issuance configuration, built once at
// startup and passed into the issuer.
type TokenConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
	TTL        time.Duration
}

// withDefaults fills in documented defaults for missing issuer, audience,
// and TTL. The signing key is deliberately not defaulted.
func (c TokenConfig) withDefaults() TokenConfig {
	if c.Issuer == "" {
		c.Issuer = DefaultTokenIssuer
	}
	if c.Audience == "" {
		c.Audience = DefaultTokenAudience
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTokenTTL
	}
	return c
}

// TokenIssuer builds signed, time-bounded bearer tokens for accounts.
type TokenIssuer interface {
	// Generate issues a new token for the account. Two calls for the same
	// account yield distinct tokens (fresh jti and issued-at), both valid
	// until expiry.
	Generate(account *Account) (string, error)
}

// accountClaims are the JWT claims carried by a Quayside bearer token.
type accountClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// JWTIssuer implements TokenIssuer using HS256-signed JWTs.
type JWTIssuer struct {
	cfg TokenConfig
}

// NewJWTIssuer creates a JWTIssuer. Missing issuer, audience, or TTL fall
// back to defaults; a missing signing key is a configuration error.
func NewJWTIssuer(cfg TokenConfig) (*JWTIssuer, error) {
	if cfg.SigningKey == "" {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("token signing key is required")
	}
	return &JWTIssuer{cfg: cfg.withDefaults()}, nil
}

// Generate issues a new signed token for the account.
func (i *JWTIssuer) Generate(account *Account) (string, error) {
	if account == nil {
		return "", oops.Code("TOKEN_GENERATE_FAILED").Errorf("account cannot be nil")
	}

	now := time.Now()
	claims := &accountClaims{
		Name: account.Username.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(account.ID, 10),
			ID:        ulid.Make().String(),
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.SigningKey))
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").
			With("account_id", account.ID).
			Wrap(err)
	}
	return signed, nil
}

// Parse verifies a token's signature, issuer, audience, and expiry, and
// returns the numeric subject id it carries. Used by the transport layer
// before current-user lookups.
func (i *JWTIssuer) Parse(token string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(token, &accountClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, oops.Code("TOKEN_INVALID").Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(i.cfg.SigningKey), nil
	},
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, oops.Code("TOKEN_INVALID").Wrap(err)
	}

	claims, ok := parsed.Claims.(*accountClaims)
	if !ok || !parsed.Valid {
		return 0, oops.Code("TOKEN_INVALID").Errorf("invalid token claims")
	}

	subject, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, oops.Code("TOKEN_INVALID").
			With("subject", claims.Subject).
			Wrap(err)
	}
	return subject, nil
}

// Compile-time interface check.
var _ TokenIssuer = (*JWTIssuer)(nil)
