// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// refreshCmd renews the access token ahead of time.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Renew the access token now",
	Long: `The refresh command exchanges the stored refresh token for a new access token
and stores it. The refresh token itself is kept. A rejected refresh token leaves
the store untouched; run 'tokensession login' to start a new session.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.auth.Refresh(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Access token renewed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
