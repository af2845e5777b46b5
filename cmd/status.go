// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokensession/cli/internal/auth"
)

// statusCmd prints the local session phase without contacting the backend.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the local session state",
	Long: `The status command reads the token store and prints whether a complete session
(access token and refresh token) is present. It never contacts the backend and
never prints token values.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.auth.Session()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "phase:         %s\n", auth.PhaseOf(s))
		fmt.Fprintf(out, "user id:       %s\n", orNone(s.UserID))
		fmt.Fprintf(out, "access token:  %s\n", presence(s.AccessToken))
		fmt.Fprintf(out, "refresh token: %s\n", presence(s.RefreshToken))
		fmt.Fprintf(out, "store:         %s\n", a.cfg.Store)
		fmt.Fprintf(out, "backend:       %s\n", a.manifest.HTTPBaseURL())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func presence(v string) string {
	if v == "" {
		return "absent"
	}
	return "present"
}

func orNone(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
