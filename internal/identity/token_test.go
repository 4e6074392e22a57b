// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package identity_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quayside/quayside/internal/identity"
)

const testSigningKey = "test-signing-key-0123456789abcdef"

func testAccount(t *testing.T, id int64) *identity.Account {
	t.Helper()
	username, err := identity.NewUsername("alice")
	require.NoError(t, err)
	email, err := identity.NewEmail("alice@example.com")
	require.NoError(t, err)
	account := identity.NewAccount(username, email, "hash", "salt")
	account.ID = id
	return account
}

func TestNewJWTIssuer(t *testing.T) {
	t.Run("requires a signing key", func(t *testing.T) {
		_, err := identity.NewJWTIssuer(identity.TokenConfig{})
		assert.Error(t, err)
	})

	t.Run("fills in defaults", func(t *testing.T) {
		issuer, err := identity.NewJWTIssuer(identity.TokenConfig{SigningKey: testSigningKey})
		require.NoError(t, err)

		token, err := issuer.Generate(testAccount(t, 1))
		require.NoError(t, err)

		claims := decodeClaims(t, token)
		assert.Equal(t, identity.DefaultTokenIssuer, claims["iss"])
		audience, ok := claims["aud"].([]any)
		require.True(t, ok)
		assert.Contains(t, audience, identity.DefaultTokenAudience)
	})
}

func TestGenerateToken(t *testing.T) {
	issuer, err := identity.NewJWTIssuer(identity.TokenConfig{SigningKey: testSigningKey})
	require.NoError(t, err)

	t.Run("rejects nil account", func(t *testing.T) {
		_, err := issuer.Generate(nil)
		assert.Error(t, err)
	})

	t.Run("encodes subject id and username", func(t *testing.T) {
		token, err := issuer.Generate(testAccount(t, 42))
		require.NoError(t, err)

		claims := decodeClaims(t, token)
		assert.Equal(t, "42", claims["sub"])
		assert.Equal(t, "alice", claims["name"])
		assert.NotEmpty(t, claims["jti"])
		assert.NotEmpty(t, claims["exp"])
	})

	t.Run("two tokens for the same account differ but share a subject", func(t *testing.T) {
		account := testAccount(t, 7)

		token1, err := issuer.Generate(account)
		require.NoError(t, err)
		token2, err := issuer.Generate(account)
		require.NoError(t, err)

		assert.NotEqual(t, token1, token2)

		subject1, err := issuer.Parse(token1)
		require.NoError(t, err)
		subject2, err := issuer.Parse(token2)
		require.NoError(t, err)
		assert.Equal(t, subject1, subject2)
		assert.Equal(t, int64(7), subject1)
	})
}

func TestParseToken(t *testing.T) {
	issuer, err := identity.NewJWTIssuer(identity.TokenConfig{SigningKey: testSigningKey})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		token, err := issuer.Generate(testAccount(t, 9))
		require.NoError(t, err)

		subject, err := issuer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, int64(9), subject)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := issuer.Parse("not.a.token")
		assert.Error(t, err)
	})

	t.Run("rejects a token signed with a different key", func(t *testing.T) {
		other, err := identity.NewJWTIssuer(identity.TokenConfig{SigningKey: "completely-different-key"})
		require.NoError(t, err)

		token, err := other.Generate(testAccount(t, 3))
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.Error(t, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		shortLived, err := identity.NewJWTIssuer(identity.TokenConfig{
			SigningKey: testSigningKey,
			TTL:        time.Millisecond,
		})
		require.NoError(t, err)

		token, err := shortLived.Generate(testAccount(t, 5))
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		_, err = shortLived.Parse(token)
		assert.Error(t, err)
	})

	t.Run("rejects a token for the wrong audience", func(t *testing.T) {
		other, err := identity.NewJWTIssuer(identity.TokenConfig{
			SigningKey: testSigningKey,
			Audience:   "some-other-app",
		})
		require.NoError(t, err)

		token, err := other.Generate(testAccount(t, 3))
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.Error(t, err)
	})
}

// decodeClaims parses the token without verification to inspect its claims.
func decodeClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}
