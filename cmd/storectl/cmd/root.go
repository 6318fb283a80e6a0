// Package cmd provides the storectl CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "storectl",
	Short: "storectl - storefront backend client",
	Long: `storectl is a command-line client for the storefront REST backend.

It manages the local session (token and cached profile), synchronizes the
shopping cart with the server, looks up shipping areas, and reads the admin
dashboard analytics.

Configuration:
  Config is loaded from storefront.yaml in the current directory. Environment
  variables with the STOREFRONT_ prefix override config values.
  Example: STOREFRONT_BASE_URL=http://127.0.0.1:8080/api

Client state (token, profile, preferences) persists to a local state file by
default; set stateBackend: redis to share it through Redis.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		// A .env next to the binary is a convenience for development.
		_ = godotenv.Load()
	})
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./storefront.yaml)")
}
