package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Quayside CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quayside",
		Short: "Quayside - identity backend",
		Long: `Quayside is the backend for the Quayside web application. It issues
accounts, authenticates users, and serves the identity API.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
