// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

// Package store provides the PostgreSQL connection pool and schema
// management for Quayside.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection retry parameters for startup. The database is often still
// coming up when the service starts; a short fibonacci backoff absorbs that.
const (
	connectRetryBase = 250 * time.Millisecond
	connectRetryMax  = 6
)

// Postgres owns the pgx connection pool shared by all repositories.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect creates a connection pool and verifies it with a ping, retrying
// transient failures with backoff.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "create pool").
			Wrap(err)
	}

	backoff := retry.WithMaxRetries(connectRetryMax, retry.NewFibonacci(connectRetryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping database").
			Wrap(err)
	}

	return &Postgres{pool: pool}, nil
}

// Pool returns the underlying connection pool.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

// Ping verifies database connectivity. Used as the readiness check.
func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return oops.Code("DB_PING_FAILED").Wrap(err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}
