// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/quayside/quayside/internal/config"
	"github.com/quayside/quayside/internal/httpapi"
	"github.com/quayside/quayside/internal/identity"
	identitypg "github.com/quayside/quayside/internal/identity/postgres"
	"github.com/quayside/quayside/internal/logging"
	"github.com/quayside/quayside/internal/observability"
	"github.com/quayside/quayside/internal/store"
	"github.com/quayside/quayside/pkg/errutil"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Quayside API server",
		Long: `Start the Quayside backend: the identity API, and a separate
observability listener with metrics and health probes.`,
		RunE: runServe,
	}

	f := cmd.Flags()
	f.String("http.addr", config.DefaultHTTPAddr, "API listen address")
	f.StringSlice("http.cors_origins", nil, "allowed CORS origins")
	f.String("metrics.addr", config.DefaultMetricsAddr, "metrics/health listen address")
	f.String("database.url", "", "PostgreSQL connection URL (or DATABASE_URL)")
	f.Bool("database.auto_migrate", false, "apply pending migrations at startup")
	f.String("token.signing_key", "", "bearer token signing key (required)")
	f.String("token.issuer", "", "token issuer claim")
	f.String("token.audience", "", "token audience claim")
	f.Int("token.ttl_hours", config.DefaultTokenTTL, "token lifetime in hours")
	f.String("log.format", config.DefaultLogFormat, "log format (json or text)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database url is required (flag, config file, or DATABASE_URL)")
	}

	logging.SetDefault("quayside", version, cfg.Log.Format)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		errutil.LogError(logger, "database connection failed", err)
		return err
	}
	defer pg.Close()
	logger.Info("connected to database")

	if cfg.Database.AutoMigrate {
		if err := autoMigrate(cfg.Database.URL, logger); err != nil {
			return err
		}
	}

	issuer, err := identity.NewJWTIssuer(identity.TokenConfig{
		SigningKey: cfg.Token.SigningKey,
		Issuer:     cfg.Token.Issuer,
		Audience:   cfg.Token.Audience,
		TTL:        cfg.Token.TTL(),
	})
	if err != nil {
		return err
	}
	hasher := identity.NewPBKDF2Hasher()

	obs := observability.NewServer(cfg.Metrics.Addr, func() bool {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return pg.Ping(pingCtx) == nil
	})
	obsErrCh, err := obs.Start()
	if err != nil {
		errutil.LogError(logger, "observability server failed to start", err)
		return err
	}
	metrics := obs.Metrics()

	publisher := identity.NewPublisher(logger)
	publisher.Subscribe(identity.AccountRegistered{}.EventName(), registrationAudit(logger, metrics))

	stores := func() httpapi.AccountStore {
		return identitypg.NewAccountStore(pg.Pool())
	}
	handlers := httpapi.NewHandlers(stores, hasher, issuer, issuer, publisher, metrics, logger)
	api := httpapi.NewServer(cfg.HTTP.Addr, handlers, cfg.HTTP.CORSOrigins, logger)
	apiErrCh := api.Start()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-apiErrCh:
		if err != nil {
			errutil.LogError(logger, "api server failed", err)
		}
	case err := <-obsErrCh:
		if err != nil {
			errutil.LogError(logger, "observability server failed", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := api.Stop(shutdownCtx); err != nil {
		errutil.LogError(logger, "api server shutdown failed", err)
	}
	if err := obs.Stop(shutdownCtx); err != nil {
		errutil.LogError(logger, "observability server shutdown failed", err)
	}

	logger.Info("quayside stopped")
	return nil
}

// registrationAudit is the in-process subscriber for committed
// registrations: it writes the audit line and bumps the counter.
func registrationAudit(logger *slog.Logger, metrics *observability.Metrics) identity.EventHandler {
	return func(_ context.Context, event identity.Event) error {
		registered, ok := event.(identity.AccountRegistered)
		if !ok {
			return oops.Errorf("unexpected event type for %s", event.EventName())
		}
		logger.Info("account registered",
			"event_id", registered.ID.String(),
			"account_id", registered.AccountID,
			"username", registered.Username,
		)
		metrics.RegistrationsTotal.Inc()
		return nil
	}
}

func autoMigrate(databaseURL string, logger *slog.Logger) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			errutil.LogError(logger, "migrator close failed", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}
