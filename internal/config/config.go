// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

// Package config loads the immutable process configuration: defaults,
// overridden by an optional YAML file, overridden by command-line flags.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Default listen addresses and settings.
const (
	DefaultHTTPAddr    = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
	DefaultTokenTTL    = 24 // hours
)

// Config is the full process configuration. Built once at startup and never
// mutated afterwards.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Database DatabaseConfig `koanf:"database"`
	Token    TokenConfig    `koanf:"token"`
	Log      LogConfig      `koanf:"log"`
}

// HTTPConfig configures the public API server.
type HTTPConfig struct {
	Addr        string   `koanf:"addr"`
	CORSOrigins []string `koanf:"cors_origins"`
}

// MetricsConfig configures the observability server.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig configures PostgreSQL access.
type DatabaseConfig struct {
	URL         string `koanf:"url"`
	AutoMigrate bool   `koanf:"auto_migrate"`
}

// TokenConfig configures bearer token issuance. Issuer and audience have
// safe defaults applied by the token issuer; the signing key must be
// operator-supplied.
type TokenConfig struct {
	SigningKey string `koanf:"signing_key"`
	Issuer     string `koanf:"issuer"`
	Audience   string `koanf:"audience"`
	TTLHours   int    `koanf:"ttl_hours"`
}

// TTL returns the token lifetime as a duration.
func (c TokenConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		HTTP:    HTTPConfig{Addr: DefaultHTTPAddr},
		Metrics: MetricsConfig{Addr: DefaultMetricsAddr},
		Token:   TokenConfig{TTLHours: DefaultTokenTTL},
		Log:     LogConfig{Format: DefaultLogFormat},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (if non-empty), then the given flags. Unchanged flags do not override
// file values.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks invariants that hold for every command.
func (c Config) Validate() error {
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("log_format", c.Log.Format).
			Errorf("log format must be json or text")
	}
	if c.Token.TTLHours <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("ttl_hours", c.Token.TTLHours).
			Errorf("token ttl must be positive")
	}
	return nil
}
