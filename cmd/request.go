// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var requestData string

// requestCmd calls any backend endpoint through the authenticated client.
var requestCmd = &cobra.Command{
	Use:   "request <METHOD> <endpoint>",
	Short: "Call a backend endpoint with the stored session",
	Long: `The request command sends METHOD endpoint to the backend with the stored access
token attached and prints the JSON response. A 403 answer triggers one token
renewal and one replay of the same request.

Examples:
  tokensession request GET /api/user
  tokensession request POST /api/reviews --data '{"rating": 5}'`,
	Args: cobra.ExactArgs(2),

	RunE: func(cmd *cobra.Command, args []string) error {
		var body any
		if requestData != "" {
			if err := json.Unmarshal([]byte(requestData), &body); err != nil {
				return fmt.Errorf("--data is not valid JSON: %w", err)
			}
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		result, err := a.client.Request(cmd.Context(), args[1], args[0], body)
		if err != nil {
			return err
		}
		if result == nil {
			return nil
		}

		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(requestCmd)
	requestCmd.Flags().StringVar(&requestData, "data", "", "JSON request body")
}
