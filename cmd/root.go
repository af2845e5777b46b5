// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the tokensession CLI.
// It implements subcommands for signing in through the browser, inspecting and
// renewing the stored session, and calling the backend with automatic token
// refresh, using the Cobra CLI framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokensession/cli/internal/config"
)

var (
	showVersion  bool
	flagBaseURL  string
	flagStore    string
	flagLogLevel string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tokensession",
	Short: "Keep a backend session alive from the terminal",
	Long: `tokensession signs in through the browser, keeps the issued access and refresh
tokens in the OS keychain, and calls the backend with the access token attached.
When the backend refuses an expired token, the CLI renews it once and replays the
request; if renewal fails the local session is cleared.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tokensession %s\nbackend %s\n", Version, cfg.BaseURL)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and presents any error that occurs during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		presentError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBaseURL, "base-url", "", "Backend base URL (overrides "+config.EnvBaseURL+")")
	pf.StringVar(&flagStore, "store", "", "Token store: keychain, file or memory (overrides "+config.EnvStore+")")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error or off")
}
