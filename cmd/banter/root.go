// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Banter CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "banter",
		Short: "Banter - a real-time chat server",
		Long: `Banter is a real-time chat server with cookie-based JWT sessions,
direct messaging over PostgreSQL, and websocket delivery of messages
and presence.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
