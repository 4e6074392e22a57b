// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quayside/quayside/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quayside.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func serveFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags.String("http.addr", config.DefaultHTTPAddr, "")
	flags.String("metrics.addr", config.DefaultMetricsAddr, "")
	flags.String("database.url", "", "")
	flags.String("log.format", config.DefaultLogFormat, "")
	flags.Int("token.ttl_hours", config.DefaultTokenTTL, "")
	return flags
}

func TestLoad(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		cfg, err := config.Load("", nil)
		require.NoError(t, err)

		assert.Equal(t, config.DefaultHTTPAddr, cfg.HTTP.Addr)
		assert.Equal(t, config.DefaultMetricsAddr, cfg.Metrics.Addr)
		assert.Equal(t, config.DefaultLogFormat, cfg.Log.Format)
		assert.Equal(t, config.DefaultTokenTTL, cfg.Token.TTLHours)
		assert.Empty(t, cfg.Database.URL)
		assert.False(t, cfg.Database.AutoMigrate)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
http:
  addr: 0.0.0.0:9000
  cors_origins:
    - https://app.example.com
database:
  url: postgres://localhost/quayside
  auto_migrate: true
log:
  format: text
`)

		cfg, err := config.Load(path, nil)
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:9000", cfg.HTTP.Addr)
		assert.Equal(t, []string{"https://app.example.com"}, cfg.HTTP.CORSOrigins)
		assert.Equal(t, "postgres://localhost/quayside", cfg.Database.URL)
		assert.True(t, cfg.Database.AutoMigrate)
		assert.Equal(t, "text", cfg.Log.Format)
		// Untouched sections keep their defaults.
		assert.Equal(t, config.DefaultMetricsAddr, cfg.Metrics.Addr)
	})

	t.Run("changed flags override the file", func(t *testing.T) {
		path := writeConfigFile(t, `
http:
  addr: 0.0.0.0:9000
`)
		flags := serveFlags()
		require.NoError(t, flags.Parse([]string{"--http.addr", "127.0.0.1:7777"}))

		cfg, err := config.Load(path, flags)
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:7777", cfg.HTTP.Addr)
	})

	t.Run("unchanged flags do not override the file", func(t *testing.T) {
		path := writeConfigFile(t, `
http:
  addr: 0.0.0.0:9000
`)
		flags := serveFlags()
		require.NoError(t, flags.Parse(nil))

		cfg, err := config.Load(path, flags)
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:9000", cfg.HTTP.Addr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfigFile(t, "http: [not: a map")
		_, err := config.Load(path, nil)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("rejects an unknown log format", func(t *testing.T) {
		cfg := config.Default()
		cfg.Log.Format = "xml"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects a non-positive token ttl", func(t *testing.T) {
		cfg := config.Default()
		cfg.Token.TTLHours = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("accepts the defaults", func(t *testing.T) {
		assert.NoError(t, config.Default().Validate())
	})
}

func TestTokenTTL(t *testing.T) {
	cfg := config.TokenConfig{TTLHours: 12}
	assert.Equal(t, 12*time.Hour, cfg.TTL())
}
