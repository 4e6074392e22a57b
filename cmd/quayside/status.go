// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/quayside/quayside/internal/config"
)

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the health of a running Quayside server",
		Long:  `Query the observability listener's readiness probe and report the result.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", config.DefaultMetricsAddr, "observability listener address")

	return cmd
}

func runStatus(cmd *cobra.Command, metricsAddr string) error {
	client := &http.Client{Timeout: 3 * time.Second}

	url := fmt.Sprintf("http://%s/healthz/readiness", metricsAddr)
	resp, err := client.Get(url) //nolint:noctx // one-shot CLI probe
	if err != nil {
		return oops.Code("STATUS_UNREACHABLE").With("url", url).Wrap(err)
	}
	defer resp.Body.Close() //nolint:errcheck // best effort

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return oops.Code("STATUS_READ_FAILED").Wrap(err)
	}

	if resp.StatusCode != http.StatusOK {
		cmd.Printf("not ready (%d): %s", resp.StatusCode, string(body))
		return oops.Code("STATUS_NOT_READY").
			With("status", resp.StatusCode).
			Errorf("server is not ready")
	}

	cmd.Printf("ready: %s", string(body))
	return nil
}
