// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tokensession/cli/internal/auth"
)

// whoamiCmd shows the profile of the signed-in user.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show the signed-in user",
	Long: `The whoami command fetches the user profile from the backend with the stored
access token. An expired token is renewed transparently; if renewal fails the
session is cleared and you are asked to log in again.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if a.auth.State().CurrentPhase() != auth.LoggedIn {
			printNotLoggedIn(out)
			return nil
		}

		u, err := a.client.GetUser(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "👤 Current user: %s\n", displayName(u))
		if u.Picture != "" {
			fmt.Fprintf(out, "   Picture: %s\n", u.Picture)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func printNotLoggedIn(out io.Writer) {
	fmt.Fprintln(out, "🔒 You're not logged in yet!")
	fmt.Fprintln(out, "   Run 'tokensession login' to get started.")
}
