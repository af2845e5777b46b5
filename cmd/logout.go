// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd clears the local session and asks the backend to end its own.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	Long: `The logout command removes the access token, refresh token and user id from
the token store in one step. It then calls the backend's logout endpoint
(best-effort; an offline backend does not keep the local session alive).`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.auth.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Session removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
